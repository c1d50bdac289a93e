package builder

import (
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// AppendNot emits or folds boolean negation.
func AppendNot(ctx *Context, x ir.RegOr[bool]) ir.RegOr[bool] {
	if !x.IsReg() {
		return ir.RegOrImm(!x.Imm())
	}
	dest := ctx.Reserve(&types.Type{Kind: types.Bool})
	ctx.append(ir.Cmd{Op: opcode.Not, Dest: dest, Kind: types.Bool, X: ir.OperandReg(x.Reg())})
	return ir.RegOrReg[bool](dest)
}

func boolOperand(x ir.RegOr[bool]) ir.Operand {
	if x.IsReg() {
		return ir.OperandReg(x.Reg())
	}
	return ir.OperandBool(x.Imm())
}

// AppendAnd/AppendOr/AppendXor implement the logical family over bool,
// folding when both operands are immediates.
func AppendAnd(ctx *Context, x, y ir.RegOr[bool]) ir.RegOr[bool] {
	if !x.IsReg() && !y.IsReg() {
		return ir.RegOrImm(x.Imm() && y.Imm())
	}
	return appendBoolOp(ctx, opcode.And, x, y)
}

func AppendOr(ctx *Context, x, y ir.RegOr[bool]) ir.RegOr[bool] {
	if !x.IsReg() && !y.IsReg() {
		return ir.RegOrImm(x.Imm() || y.Imm())
	}
	return appendBoolOp(ctx, opcode.Or, x, y)
}

func AppendXor(ctx *Context, x, y ir.RegOr[bool]) ir.RegOr[bool] {
	if !x.IsReg() && !y.IsReg() {
		return ir.RegOrImm(x.Imm() != y.Imm())
	}
	return appendBoolOp(ctx, opcode.Xor, x, y)
}

func appendBoolOp(ctx *Context, op opcode.Op, x, y ir.RegOr[bool]) ir.RegOr[bool] {
	dest := ctx.Reserve(&types.Type{Kind: types.Bool})
	ctx.append(ir.Cmd{Op: op, Dest: dest, Kind: types.Bool, X: boolOperand(x), Y: boolOperand(y)})
	return ir.RegOrReg[bool](dest)
}
