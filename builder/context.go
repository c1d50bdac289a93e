// Package builder is the emission API the elaborator drives to produce
// IR. Where the original Icarus source threads a process-wide "current
// function"/"current block" pair, this package threads an explicit
// *Context instead, per spec.md §9's own recommended alternative design
// ("An implementation should pass these as an explicit emission context
// threaded through builder calls; nested CTE invocations must save and
// restore the previous context on entry/exit"). Shape and naming of the
// emission helpers otherwise follow the teacher's line-based assembly
// builder in vm/compile.go (preprocessLine/parseInputLine), generalized
// from text parsing to direct struct construction.
package builder

import (
	"fmt"

	"icarusir/ir"
	"icarusir/types"
)

// Context is one emission cursor: the function currently being built and
// the block within it that subsequent Append calls target. A CTE
// invocation (see the cte package) constructs a fresh Context per nested
// evaluation rather than mutating a shared global, so reentrant
// evaluation (spec.md §4.5's "Guarantees" paragraph) needs no save/restore
// dance.
type Context struct {
	Func    *ir.Func
	current int
	Arch    types.Arch
}

// NewContext creates a builder Context around a fresh nullary-or-typed
// Func, mirroring new_func from spec.md §4.2: constructs a function with
// a single empty entry block and reserves parameter registers aligned to
// their types.
func NewContext(name string, input *types.Type, outputs []*types.Type, arch types.Arch) *Context {
	f := ir.NewFunc(name, input, outputs, arch)
	return &Context{Func: f, current: 0, Arch: arch}
}

// WithFunc wraps an already-constructed Func (e.g. one rebuilt by the
// inliner) in a fresh Context positioned at its entry block.
func WithFunc(f *ir.Func) *Context {
	return &Context{Func: f, current: 0, Arch: f.Arch}
}

// AddBlock appends an empty block to the current function and returns its
// index. Does not move the emission cursor; call SetCurrent explicitly.
func (c *Context) AddBlock() int {
	return c.Func.AddBlock()
}

// SetCurrent moves the emission cursor to block, the target of all
// subsequent Append-driving helper calls.
func (c *Context) SetCurrent(block int) {
	if block < 0 || block >= len(c.Func.Blocks) {
		panic(fmt.Sprintf("builder: SetCurrent: block %d out of range", block))
	}
	c.current = block
}

// Current returns the emission cursor's block index.
func (c *Context) Current() int { return c.current }

func (c *Context) currentBlock() *ir.BasicBlock {
	return c.Func.Block(c.current)
}

// append appends cmd to the current block and, if it produces a
// destination register, records it in the function's reverse map — the
// invariant spec.md §4.1 requires to hold after every single append.
func (c *Context) append(cmd ir.Cmd) {
	b := c.currentBlock()
	if b.Terminated() {
		panic("builder: append into an already-terminated block")
	}
	idx := len(b.Instructions)
	b.Append(cmd)
	if cmd.Op.HasDest() {
		c.Func.RecordDef(cmd.Dest, c.current, idx)
	}
}

// Reserve advances the current function's frame for a value of type t
// and returns a fresh register, without appending any instruction. Used
// internally by every Append* helper that produces a value.
func (c *Context) Reserve(t *types.Type) ir.Register {
	return c.Func.Reserve(t)
}
