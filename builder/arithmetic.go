package builder

import (
	"fmt"

	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// Numeric is the set of Go representations the builder folds immediates
// in, one per primitive width the type system exposes for arithmetic.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func toOperand[T Numeric](v T) ir.Operand {
	switch x := any(v).(type) {
	case float32:
		return ir.OperandFloat32(x)
	case float64:
		return ir.OperandFloat64(x)
	default:
		return ir.OperandInt(toInt64(v))
	}
}

func toInt64[T Numeric](v T) int64 {
	switch x := any(v).(type) {
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	default:
		panic(fmt.Sprintf("builder: unsupported numeric representation %T", v))
	}
}

func regOrToOperand[T Numeric](r ir.RegOr[T]) ir.Operand {
	if r.IsReg() {
		return ir.OperandReg(r.Reg())
	}
	return toOperand(r.Imm())
}

// foldArith evaluates op over immediates x,y of kind, used only when
// both operands are compile-time-known — the builder-level immediate
// folding contract of spec.md §4.1.
func foldArith[T Numeric](op opcode.Op, x, y T) (T, error) {
	switch op {
	case opcode.Add:
		return x + y, nil
	case opcode.Sub:
		return x - y, nil
	case opcode.Mul:
		return x * y, nil
	case opcode.Div:
		if isZero(y) {
			return x, fmt.Errorf("builder: constant-fold division by zero")
		}
		return x / y, nil
	case opcode.Mod:
		if isZero(y) {
			return x, fmt.Errorf("builder: constant-fold modulo by zero")
		}
		return foldMod(x, y), nil
	default:
		panic(fmt.Sprintf("builder: foldArith: unsupported op %s", op))
	}
}

func isZero[T Numeric](v T) bool { return v == 0 }

func foldMod[T Numeric](x, y T) T {
	switch any(x).(type) {
	case float32, float64:
		// Modulo on floats is not part of the arithmetic family the core
		// exposes; callers must not reach this with float Kind.
		panic("builder: Mod is not defined over floating-point kinds")
	default:
		return x - (x/y)*y
	}
}

// AppendBinArith emits (or folds) one binary arithmetic op, implementing
// the contract in spec.md §4.1 exactly: if both x and y are compile-time
// immediates the builder folds and returns an immediate with nothing
// appended; otherwise it emits
// [cmd_index][control_bits(x_is_reg,y_is_reg,kind)][r][x][y] (the
// destination is written ahead of the operands) and returns
// RegOr(Reg(r)), recording r in the reverse map via Context.append.
func AppendBinArith[T Numeric](ctx *Context, op opcode.Op, kind types.Kind, x, y ir.RegOr[T]) ir.RegOr[T] {
	if !x.IsReg() && !y.IsReg() {
		folded, err := foldArith(op, x.Imm(), y.Imm())
		if err != nil {
			panic(err)
		}
		return ir.RegOrImm(folded)
	}

	var elemType *types.Type
	switch kind {
	case types.F32, types.F64:
		elemType = &types.Type{Kind: kind}
	default:
		elemType = &types.Type{Kind: kind}
	}
	dest := ctx.Reserve(elemType)
	ctx.append(ir.Cmd{
		Op:   op,
		Dest: dest,
		Kind: kind,
		X:    regOrToOperand(x),
		Y:    regOrToOperand(y),
	})
	return ir.RegOrReg[T](dest)
}

// AppendCompare emits (or folds, when both sides are immediates) one
// comparison op, returning a RegOr[bool].
func AppendCompare[T Numeric](ctx *Context, op opcode.Op, kind types.Kind, x, y ir.RegOr[T]) ir.RegOr[bool] {
	if !x.IsReg() && !y.IsReg() {
		return ir.RegOrImm(foldCompare(op, x.Imm(), y.Imm()))
	}
	dest := ctx.Reserve(&types.Type{Kind: types.Bool})
	ctx.append(ir.Cmd{
		Op:   op,
		Dest: dest,
		Kind: kind,
		X:    regOrToOperand(x),
		Y:    regOrToOperand(y),
	})
	return ir.RegOrReg[bool](dest)
}

func foldCompare[T Numeric](op opcode.Op, x, y T) bool {
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
		panic(fmt.Sprintf("builder: foldCompare: unsupported op %s", op))
	}
}
