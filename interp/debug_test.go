package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icarusir/builder"
	"icarusir/internal/testprog"
	"icarusir/ir"
	"icarusir/types"
)

func TestLineDebuggerTracesEveryInstruction(t *testing.T) {
	f := testprog.ConstI32(7, arch())
	dbg := NewLineDebugger()
	m := NewMachine()
	m.Debugger = dbg

	out := make([]byte, 4)
	require.NoError(t, m.Run(f, nil, []ir.Addr{ir.NewHeap(out, 0)}))
	assert.NotEmpty(t, dbg.Trace)
}

func TestLineDebuggerHaltsAtBreakpointUntilResumed(t *testing.T) {
	ctx := builder.NewContext("bp", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	body := ctx.AddBlock()
	ctx.SetCurrent(body)
	builder.AppendSetReturn(ctx, 0, ir.RegOrImm[int64](3))
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(body)

	dbg := NewLineDebugger()
	dbg.SetBreakpoint(body)
	m := NewMachine()
	m.Debugger = dbg

	done := make(chan error, 1)
	out := make([]byte, 4)
	go func() { done <- m.Run(ctx.Func, nil, []ir.Addr{ir.NewHeap(out, 0)}) }()

	<-dbg.Halt
	dbg.Resume <- struct{}{}

	require.NoError(t, <-done)
}
