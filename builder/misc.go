package builder

import (
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// AppendCast emits a Cast from one primitive kind to another.
func AppendCast(ctx *Context, from ir.Register, to *types.Type) ir.Register {
	dest := ctx.Reserve(to)
	ctx.append(ir.Cmd{Op: opcode.Cast, Dest: dest, Type: to, X: ir.OperandReg(from)})
	return dest
}

// AppendPrint emits a debug Print of a register's value. The interpreter
// accepts Print but writes no output for it (spec.md §3 lists Print in
// the "I/O and misc" family but leaves its sink unspecified at the core
// level).
func (c *Context) AppendPrint(v ir.Operand) {
	c.append(ir.Cmd{Op: opcode.Print, X: v})
}

// AppendDebugIr emits a DebugIr marker instruction, a no-op at
// interpretation time used to bracket regions of interest when dumping.
func (c *Context) AppendDebugIr() {
	c.append(ir.Cmd{Op: opcode.DebugIr})
}
