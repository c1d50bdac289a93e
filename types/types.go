// Package types is the read-only surface of the (external) type system that
// the IR and interpreter depend on. A real compiler resolves these from
// declarations in source; here we model exactly the operations the core
// needs: size, alignment, field offsets, and the by-value/by-address ABI
// split (see spec.md §6, "Interfaces consumed from the type system").
package types

// Kind tags the primitive shapes the interpreter knows how to move bits
// for. Struct/array/variant/tuple types are modeled separately below and
// are passed by address at the ABI boundary (see Layout.IsBig).
type Kind uint8

const (
	Invalid Kind = iota
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Pointer
	Tuple
	Array
	Struct
	Variant
	Enum
	Flags
	Func
	BlockSeq
	Module
	CharBuffer
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Pointer:
		return "ptr"
	case Tuple:
		return "tuple"
	case Array:
		return "array"
	case Struct:
		return "struct"
	case Variant:
		return "variant"
	case Enum:
		return "enum"
	case Flags:
		return "flags"
	case Func:
		return "func"
	case BlockSeq:
		return "block_seq"
	case Module:
		return "module"
	case CharBuffer:
		return "char_buffer"
	default:
		return "invalid"
	}
}

// Arch distinguishes the interpreting machine's pointer width from the
// eventual compiling machine's, following Architecture::InterprettingMachine
// vs Architecture::CompilingMachine in the original Icarus source. The core
// always lays out interpreter frames using InterprettingMachine.
type Arch struct {
	PtrBytes uint32
	PtrAlign uint32
}

// InterprettingMachine is the layout used for every Func the interpreter
// itself executes: pointer-sized slots match Addr's in-process encoding.
func InterprettingMachine() Arch {
	return Arch{PtrBytes: 8, PtrAlign: 8}
}

// CompilingMachine is the layout a native backend would target. The core
// never runs this; it exists so Layout callers can be explicit about which
// machine they mean instead of reading a hidden global, per spec.md §9.
func CompilingMachine() Arch {
	return Arch{PtrBytes: 8, PtrAlign: 8}
}

// Field describes one member of a Struct type. Offset is filled in by
// Layout.Fields for a given Arch; the interpreter's Field op calls
// Layout.Fields each time it runs.
type Field struct {
	Name   string
	Type   *Type
	Offset uint32
}

// Type is the minimal structural description the IR consumes. It is a
// closed sum over the Kind values above; fields not relevant to a Kind are
// zero. A full compiler's type system is far richer (name resolution,
// generics, methods); none of that is visible to the core.
type Type struct {
	Kind Kind

	// Pointer / Array element type.
	Elem *Type

	// Array: fixed length, or 0 for a slice-like dynamically sized array
	// (ArrayLength/ArrayData ops apply only to the latter, per spec.md §4.4).
	FixedLen uint32

	// Tuple: ordered entry types (also used for function input/output lists).
	Entries []*Type

	// Struct: ordered fields; Layout.Fields returns them with offsets for an Arch.
	Fields []Field

	// Variant: payload alternatives; the tag (a Type*) precedes the payload.
	Alternatives []*Type

	// Func: input/output shape, used for nullary CTE wrapper functions etc.
	Input  *Type
	Output []*Type
}

// Void is the canonical empty tuple, used as both "no input" and "no
// output" per spec.md §9's resolution of the tuple-as-universal-io
// open question: SPEC_FULL always represents zero-arity as Tuple{}.
var Void = &Type{Kind: Tuple}

func NewTuple(entries ...*Type) *Type {
	if len(entries) == 0 {
		return Void
	}
	return &Type{Kind: Tuple, Entries: entries}
}

func NewPointer(elem *Type) *Type {
	return &Type{Kind: Pointer, Elem: elem}
}

func NewArray(elem *Type, fixedLen uint32) *Type {
	return &Type{Kind: Array, Elem: elem, FixedLen: fixedLen}
}

func primitiveSize(k Kind, arch Arch) uint32 {
	switch k {
	case Bool, I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32, Enum, Flags:
		return 4
	case I64, U64, F64:
		return 8
	case Pointer, Func, Module, CharBuffer:
		return arch.PtrBytes
	case BlockSeq:
		return arch.PtrBytes
	default:
		return 0
	}
}

func primitiveAlign(k Kind, arch Arch) uint32 {
	switch k {
	case Bool, I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32, Enum, Flags:
		return 4
	case I64, U64, F64:
		return 8
	case Pointer, Func, Module, CharBuffer, BlockSeq:
		return arch.PtrAlign
	default:
		return 1
	}
}
