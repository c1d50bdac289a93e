package interp

import (
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// execSimple handles every opcode that is neither a terminator, Phi,
// SetReturn, nor Call: arithmetic, comparison, logical, memory, cast,
// and misc ops. Each reads its control-bit-tagged operands, performs the
// operation, and writes the destination register at its aligned frame
// offset, per spec.md §4.4's "Arithmetic" and "Memory" paragraphs.
func (m *Machine) execSimple(f *ir.Func, frame *Frame, cmd ir.Cmd) error {
	switch cmd.Op {
	case opcode.Add, opcode.Sub, opcode.Mul, opcode.Div, opcode.Mod:
		return m.execArith(f, frame, cmd)

	case opcode.Eq, opcode.Ne, opcode.Lt, opcode.Le, opcode.Gt, opcode.Ge:
		return m.execCompare(f, frame, cmd)

	case opcode.Not:
		v := m.resolveBool(frame, cmd.X)
		frame.writeU64(cmd.Dest, 1, boolBit(!v))
		return nil

	case opcode.And, opcode.Or, opcode.Xor:
		x, y := m.resolveBool(frame, cmd.X), m.resolveBool(frame, cmd.Y)
		var res bool
		switch cmd.Op {
		case opcode.And:
			res = x && y
		case opcode.Or:
			res = x || y
		case opcode.Xor:
			res = x != y
		}
		frame.writeU64(cmd.Dest, 1, boolBit(res))
		return nil

	case opcode.Alloca:
		size := types.NewLayout(f.Arch).SizeOf(cmd.Type)
		align := types.NewLayout(f.Arch).AlignOf(cmd.Type)
		offset := m.Stack.Alloca(size, align)
		a := ir.NewStack(offset)
		frame.writeU64(cmd.Dest, f.Arch.PtrBytes, encodeAddrBits(a))
		return nil

	case opcode.Load:
		addr := decodeAddrBits(frame.readU64(cmd.X.Reg, f.Arch.PtrBytes))
		if addr.IsNull() {
			return ErrNullDeref
		}
		size := types.NewLayout(f.Arch).SizeOf(f.TypeOf(cmd.Dest))
		frame.writeU64(cmd.Dest, size, m.readAddr(addr, size))
		return nil

	case opcode.Store:
		addr := decodeAddrBits(frame.readU64(cmd.X.Reg, f.Arch.PtrBytes))
		if addr.IsNull() {
			return ErrNullDeref
		}
		size := types.NewLayout(f.Arch).SizeOf(&types.Type{Kind: cmd.Kind})
		m.writeAddr(addr, size, m.resolveUint(frame, cmd.Y, size))
		return nil

	case opcode.PtrIncr:
		addr := decodeAddrBits(frame.readU64(cmd.X.Reg, f.Arch.PtrBytes))
		n := int64(m.resolveUint(frame, cmd.Y, 8))
		elemSize := types.NewLayout(f.Arch).SizeOf(cmd.Type)
		result := addr.Incr(n * int64(elemSize))
		frame.writeU64(cmd.Dest, f.Arch.PtrBytes, encodeAddrBits(result))
		return nil

	case opcode.Field:
		addr := decodeAddrBits(frame.readU64(cmd.X.Reg, f.Arch.PtrBytes))
		layout := types.NewLayout(f.Arch)
		offset := layout.Fields(cmd.Type)[cmd.FieldIndex].Offset
		result := addr.Incr(int64(offset))
		frame.writeU64(cmd.Dest, f.Arch.PtrBytes, encodeAddrBits(result))
		return nil

	case opcode.VariantType:
		addr := decodeAddrBits(frame.readU64(cmd.X.Reg, f.Arch.PtrBytes))
		frame.writeU64(cmd.Dest, f.Arch.PtrBytes, encodeAddrBits(addr))
		return nil

	case opcode.VariantValue:
		addr := decodeAddrBits(frame.readU64(cmd.X.Reg, f.Arch.PtrBytes))
		layout := types.NewLayout(f.Arch)
		result := addr.Incr(int64(layout.VariantPayloadOffset(cmd.Type)))
		frame.writeU64(cmd.Dest, f.Arch.PtrBytes, encodeAddrBits(result))
		return nil

	case opcode.ArrayLength:
		addr := decodeAddrBits(frame.readU64(cmd.X.Reg, f.Arch.PtrBytes))
		frame.writeU64(cmd.Dest, f.Arch.PtrBytes, encodeAddrBits(addr))
		return nil

	case opcode.ArrayData:
		addr := decodeAddrBits(frame.readU64(cmd.X.Reg, f.Arch.PtrBytes))
		result := addr.Incr(4) // length is stored first, as an i32
		frame.writeU64(cmd.Dest, f.Arch.PtrBytes, encodeAddrBits(result))
		return nil

	case opcode.Cast, opcode.Trunc, opcode.Extend:
		v := m.resolveUint(frame, cmd.X, 8)
		size := types.NewLayout(f.Arch).SizeOf(f.TypeOf(cmd.Dest))
		frame.writeU64(cmd.Dest, size, v)
		return nil

	case opcode.Print, opcode.Bytes, opcode.Align, opcode.DebugIr,
		opcode.MakePtr, opcode.MakeBufPtr, opcode.MakeArrow, opcode.MakeArray,
		opcode.MakeTup, opcode.MakeVar, opcode.MakeStruct, opcode.MakeEnum,
		opcode.MakeFlags, opcode.MakeBlockSeq:
		// Type-constructor and I/O ops are accepted and produce a
		// best-effort pass-through of their first operand; full type
		// algebra is delegated to the external type system (spec.md §1's
		// "out of scope" list), which the core only stores handles for.
		if cmd.Op.HasDest() {
			frame.writeU64(cmd.Dest, f.Arch.PtrBytes, m.resolveUint(frame, cmd.X, f.Arch.PtrBytes))
		}
		return nil

	default:
		invariantViolation("execSimple: unhandled opcode %s", cmd.Op)
		return nil
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// encodeAddrBits/decodeAddrBits pack a Stack/Global Addr into a register's
// raw bits; Heap addresses are never stored in a register this way
// because a register is a fixed-width frame slot with no room for a
// backing slice reference, so heap pointers always arrive through return
// slots or call arguments that already carry an ir.Addr value directly.
func encodeAddrBits(a ir.Addr) uint64 {
	if a.Kind == ir.Null {
		return 0
	}
	return uint64(a.Kind)<<56 | (a.Offset &^ (uint64(0xff) << 56))
}

func decodeAddrBits(bits uint64) ir.Addr {
	if bits == 0 {
		return ir.Addr{}
	}
	kind := ir.AddrKind(bits >> 56)
	offset := bits &^ (uint64(0xff) << 56)
	switch kind {
	case ir.Stack:
		return ir.NewStack(offset)
	case ir.Global:
		return ir.NewGlobal(offset)
	default:
		return ir.Addr{}
	}
}

func (m *Machine) execArith(f *ir.Func, frame *Frame, cmd ir.Cmd) error {
	if isFloatKind(cmd.Kind) {
		x := bitsToFloat64(m.resolveUint(frame, cmd.X, 8), cmd.Kind)
		y := bitsToFloat64(m.resolveUint(frame, cmd.Y, 8), cmd.Kind)
		var r float64
		switch cmd.Op {
		case opcode.Add:
			r = x + y
		case opcode.Sub:
			r = x - y
		case opcode.Mul:
			r = x * y
		case opcode.Div:
			if y == 0 {
				return ErrDivByZero
			}
			r = x / y
		case opcode.Mod:
			invariantViolation("Mod is not defined over floating-point kinds")
		}
		size := types.NewLayout(f.Arch).SizeOf(&types.Type{Kind: cmd.Kind})
		frame.writeU64(cmd.Dest, size, float64ToBits(r, cmd.Kind))
		return nil
	}

	x := m.resolveUint(frame, cmd.X, 8)
	y := m.resolveUint(frame, cmd.Y, 8)
	signed := isSignedKind(cmd.Kind)
	var r uint64
	switch cmd.Op {
	case opcode.Add:
		r = x + y
	case opcode.Sub:
		r = x - y
	case opcode.Mul:
		r = x * y
	case opcode.Div:
		if y == 0 {
			return ErrDivByZero
		}
		if signed {
			r = uint64(int64(x) / int64(y))
		} else {
			r = x / y
		}
	case opcode.Mod:
		if y == 0 {
			return ErrDivByZero
		}
		if signed {
			r = uint64(int64(x) % int64(y))
		} else {
			r = x % y
		}
	}
	size := types.NewLayout(f.Arch).SizeOf(&types.Type{Kind: cmd.Kind})
	frame.writeU64(cmd.Dest, size, r)
	return nil
}

func (m *Machine) execCompare(f *ir.Func, frame *Frame, cmd ir.Cmd) error {
	size := types.NewLayout(f.Arch).SizeOf(&types.Type{Kind: cmd.Kind})
	var res bool
	if isFloatKind(cmd.Kind) {
		x := bitsToFloat64(m.resolveUint(frame, cmd.X, size), cmd.Kind)
		y := bitsToFloat64(m.resolveUint(frame, cmd.Y, size), cmd.Kind)
		res = compareOrdered(cmd.Op, x, y)
	} else if isSignedKind(cmd.Kind) {
		shift := 64 - 8*size
		x := int64(m.resolveUint(frame, cmd.X, size)<<shift) >> shift
		y := int64(m.resolveUint(frame, cmd.Y, size)<<shift) >> shift
		res = compareOrdered(cmd.Op, x, y)
	} else {
		x := m.resolveUint(frame, cmd.X, size)
		y := m.resolveUint(frame, cmd.Y, size)
		res = compareOrdered(cmd.Op, x, y)
	}
	frame.writeU64(cmd.Dest, 1, boolBit(res))
	return nil
}

func compareOrdered[T int64 | uint64 | float64](op opcode.Op, x, y T) bool {
	switch op {
	case opcode.Eq:
		return x == y
	case opcode.Ne:
		return x != y
	case opcode.Lt:
		return x < y
	case opcode.Le:
		return x <= y
	case opcode.Gt:
		return x > y
	case opcode.Ge:
		return x >= y
	default:
		invariantViolation("compareOrdered: unhandled opcode %s", op)
		return false
	}
}

func isFloatKind(k types.Kind) bool { return k == types.F32 || k == types.F64 }

func isSignedKind(k types.Kind) bool {
	switch k {
	case types.I8, types.I16, types.I32, types.I64:
		return true
	default:
		return false
	}
}
