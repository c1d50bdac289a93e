package builder

import (
	"fmt"

	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// mustTerminate panics if the current block already has a terminator —
// "a second attempt is a programmer error" per spec.md §4.2.
func (c *Context) mustTerminate() {
	if c.currentBlock().Terminated() {
		panic("builder: block already has a terminator")
	}
}

// AppendUncondJump terminates the current block with an unconditional
// jump to target, and records the edge for target's incoming set.
func (c *Context) AppendUncondJump(target int) {
	c.mustTerminate()
	c.append(ir.Cmd{Op: opcode.UncondJump, TrueTarget: target})
	c.Func.Block(target).AddIncoming(c.current)
}

// AppendCondJump terminates the current block with a conditional branch.
func (c *Context) AppendCondJump(cond ir.RegOr[bool], trueTarget, falseTarget int) {
	c.mustTerminate()
	c.append(ir.Cmd{Op: opcode.CondJump, X: boolOperand(cond), TrueTarget: trueTarget, FalseTarget: falseTarget})
	c.Func.Block(trueTarget).AddIncoming(c.current)
	c.Func.Block(falseTarget).AddIncoming(c.current)
}

// AppendReturnJump terminates the current block, handing control back to
// the interpreter's caller (or exiting the outer execute loop).
func (c *Context) AppendReturnJump() {
	c.mustTerminate()
	c.append(ir.Cmd{Op: opcode.ReturnJump})
}

// AppendSetReturn emits SetReturn(i, v): write v into output i. The value
// always targets the output register Out(i); the inliner keeps this form
// when splicing into a caller, so an inlined SetReturn writes the
// caller's own output i.
func AppendSetReturn[T Numeric](ctx *Context, index int, v ir.RegOr[T]) {
	ctx.append(ir.Cmd{
		Op:       opcode.SetReturn,
		RetIndex: index,
		RetValue: regOrToOperand(v),
		OnlyGet:  true,
		RetDest:  ir.Out(int64(index)),
	})
}

// Phi emits a placeholder Phi instruction and returns its block/command
// position so a later MakePhi call can patch in the argument table, per
// spec.md §4.2's phi/make_phi two-step contract.
func (c *Context) Phi(t *types.Type) (dest ir.Register, block, cmdIndex int) {
	dest = c.Reserve(t)
	block = c.current
	b := c.currentBlock()
	cmdIndex = len(b.Instructions)
	c.append(ir.Cmd{Op: opcode.Phi, Dest: dest, PhiTable: map[int]ir.Operand{}})
	return dest, block, cmdIndex
}

// MakePhi patches the phi instruction at (block, cmdIndex) with its
// per-incoming-block argument table. Must be called exactly once per Phi.
func (c *Context) MakePhi(block, cmdIndex int, values map[int]ir.Operand) {
	b := c.Func.Block(block)
	if cmdIndex < 0 || cmdIndex >= len(b.Instructions) {
		panic(fmt.Sprintf("builder: MakePhi: cmd index %d out of range", cmdIndex))
	}
	cmd := &b.Instructions[cmdIndex]
	if cmd.Op != opcode.Phi {
		panic("builder: MakePhi: target instruction is not a Phi")
	}
	cmd.PhiTable = values
	// Re-encode the block's packed buffer: phi's operand count is only
	// known once the table is filled in, so the placeholder append in
	// Phi() could not have produced the real packed form. Rebuilding the
	// whole buffer from the structured slice keeps the two forms in
	// lockstep, the same invariant every other Append call preserves
	// incrementally.
	b.Buffer = ir.EncodeBuffer(b.Instructions)
}
