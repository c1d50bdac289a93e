package types

// Layout answers size/alignment/offset questions for a fixed Arch. The IR
// and interpreter never compute these inline; every Alloca, Field, and
// PtrIncr op goes through a Layout so swapping Arch (e.g. targeting a 32-bit
// machine) changes nothing else in the core, per spec.md §4.4's variant
// and field access invariants.
type Layout struct {
	arch Arch
}

func NewLayout(arch Arch) Layout {
	return Layout{arch: arch}
}

func (l Layout) Arch() Arch { return l.arch }

// SizeOf returns the in-memory footprint of t, including struct padding.
func (l Layout) SizeOf(t *Type) uint32 {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case Tuple:
		return l.tupleSize(t.Entries)
	case Array:
		return t.FixedLen * l.SizeOf(t.Elem)
	case Struct:
		return l.structSize(t)
	case Variant:
		return l.variantSize(t)
	default:
		return primitiveSize(t.Kind, l.arch)
	}
}

// AlignOf returns the required alignment of t.
func (l Layout) AlignOf(t *Type) uint32 {
	if t == nil {
		return 1
	}
	switch t.Kind {
	case Tuple:
		a := uint32(1)
		for _, e := range t.Entries {
			if ea := l.AlignOf(e); ea > a {
				a = ea
			}
		}
		return a
	case Array:
		return l.AlignOf(t.Elem)
	case Struct:
		a := uint32(1)
		for _, f := range t.Fields {
			if fa := l.AlignOf(f.Type); fa > a {
				a = fa
			}
		}
		return a
	case Variant:
		a := l.AlignOf(tagType)
		for _, alt := range t.Alternatives {
			if aa := l.AlignOf(alt); aa > a {
				a = aa
			}
		}
		return a
	default:
		return primitiveAlign(t.Kind, l.arch)
	}
}

// tagType is the synthetic discriminant prefixing every Variant payload:
// a type handle, as wide as a pointer on the Layout's Arch.
var tagType = &Type{Kind: Pointer}

// MoveForwardToAlignment rounds offset up to the next multiple of align,
// mirroring Architecture::MoveForwardToAlignment in the original source.
func MoveForwardToAlignment(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	if rem := offset % align; rem != 0 {
		return offset + (align - rem)
	}
	return offset
}

// TupleLayout computes the total size, strictest alignment, and
// per-entry byte offsets for a sequence of types laid out as a tuple.
// Exposed for callers (e.g. the CTE driver) that need offsets for
// entries that are not bundled into an actual *Type.
func (l Layout) TupleLayout(entries []*Type) (size, align uint32, offsets []uint32) {
	offsets = make([]uint32, len(entries))
	var offset uint32
	align = 1
	for i, e := range entries {
		a := l.AlignOf(e)
		if a > align {
			align = a
		}
		offset = MoveForwardToAlignment(offset, a)
		offsets[i] = offset
		offset += l.SizeOf(e)
	}
	size = MoveForwardToAlignment(offset, align)
	return size, align, offsets
}

func (l Layout) tupleSize(entries []*Type) uint32 {
	var offset uint32
	for _, e := range entries {
		offset = MoveForwardToAlignment(offset, l.AlignOf(e))
		offset += l.SizeOf(e)
	}
	align := uint32(1)
	for _, e := range entries {
		if a := l.AlignOf(e); a > align {
			align = a
		}
	}
	return MoveForwardToAlignment(offset, align)
}

// structSize computes size as a side effect of Fields() offset assignment.
func (l Layout) structSize(t *Type) uint32 {
	fields := l.Fields(t)
	if len(fields) == 0 {
		return 0
	}
	last := fields[len(fields)-1]
	offset := last.Offset + l.SizeOf(last.Type)
	return MoveForwardToAlignment(offset, l.AlignOf(t))
}

// variantSize is the tag width plus the widest alternative, tag-aligned.
func (l Layout) variantSize(t *Type) uint32 {
	payload := uint32(0)
	for _, alt := range t.Alternatives {
		if s := l.SizeOf(alt); s > payload {
			payload = s
		}
	}
	tagSize := l.SizeOf(tagType)
	offset := MoveForwardToAlignment(tagSize, l.AlignOf(t))
	return offset + payload
}

// Fields returns t.Fields with offsets computed for this Layout's Arch. If
// the type was already laid out with precomputed offsets (Offset != 0 or
// the field is first at 0 and trivially so) those are still recomputed
// here, since a Type may be laid out under more than one Arch.
func (l Layout) Fields(t *Type) []Field {
	if t.Kind != Struct {
		return nil
	}
	out := make([]Field, len(t.Fields))
	var offset uint32
	for i, f := range t.Fields {
		offset = MoveForwardToAlignment(offset, l.AlignOf(f.Type))
		out[i] = Field{Name: f.Name, Type: f.Type, Offset: offset}
		offset += l.SizeOf(f.Type)
	}
	return out
}

// VariantPayloadOffset returns the byte offset of the payload within a
// Variant's in-memory representation: tag first, then the widest
// alternative at its own alignment. This is the exact computation
// spec.md §8's variant-offset scenario exercises across 32- vs 64-bit Arch.
func (l Layout) VariantPayloadOffset(t *Type) uint32 {
	return MoveForwardToAlignment(l.SizeOf(tagType), l.AlignOf(t))
}

// IsBig reports whether a value of type t is passed by address rather than
// by value across a Func boundary, per spec.md §6's ABI split.
func (l Layout) IsBig(t *Type) bool {
	switch t.Kind {
	case Struct, Array, Variant, Tuple:
		return true
	default:
		return false
	}
}
