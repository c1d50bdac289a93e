package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icarusir/builder"
	"icarusir/interp"
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

func arch() types.Arch { return types.InterprettingMachine() }

// buildClosedCallee returns a nullary i32 function that allocates a stack
// slot, stores 7 into it, loads it back, and returns it plus 5 — closed
// over no parameters so splicing it doesn't depend on argument binding,
// which Inline does not implement (rewriteReg leaves callee Param
// references unchanged).
func buildClosedCallee() *ir.Func {
	ctx := builder.NewContext("callee", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	slot := ctx.Alloca(&types.Type{Kind: types.I32})
	builder.AppendStore(ctx, types.I32, slot, ir.RegOrImm[int32](7))
	loaded := builder.AppendLoad(ctx, types.I32, slot)
	sum := builder.AppendBinArith(ctx, opcode.Add, types.I32, ir.RegOrReg[int32](loaded), ir.RegOrImm[int32](5))
	builder.AppendSetReturn(ctx, 0, sum)
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)
	return ctx.Func
}

func TestInlineSplicesCalleeAndProducesSameResult(t *testing.T) {
	callee := buildClosedCallee()

	caller := builder.NewContext("caller", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	site := caller.AddBlock()
	caller.SetCurrent(site)

	require.NoError(t, Inline(caller, callee, nil))

	// Inline leaves the cursor on the fresh landing block with no
	// terminator yet.
	caller.AppendReturnJump()
	caller.SetCurrent(0)
	caller.AppendUncondJump(site)

	require.NoError(t, caller.Func.Verify())

	m := interp.NewMachine()
	out := make([]byte, 4)
	require.NoError(t, m.Run(caller.Func, nil, []ir.Addr{ir.NewHeap(out, 0)}))
	assert.EqualValues(t, 12, int32(getUint(out)))
}

func TestInlineMergedAllocaActuallyExecutes(t *testing.T) {
	// Regression test: the merged alloca slot must get its own Alloca
	// instruction in the caller's entry block, or its register never
	// receives a real stack address and the callee's Load/Store through
	// it reads as a null dereference.
	callee := buildClosedCallee()

	caller := builder.NewContext("caller", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	site := caller.AddBlock()
	caller.SetCurrent(site)
	require.NoError(t, Inline(caller, callee, nil))
	caller.AppendReturnJump()
	caller.SetCurrent(0)
	caller.AppendUncondJump(site)

	entry := caller.Func.Block(0)
	found := false
	for _, cmd := range entry.Instructions {
		if cmd.Op == opcode.Alloca {
			found = true
		}
	}
	assert.True(t, found, "caller's entry block must contain the merged callee alloca")

	m := interp.NewMachine()
	out := make([]byte, 4)
	require.NoError(t, m.Run(caller.Func, nil, []ir.Addr{ir.NewHeap(out, 0)}))
	assert.EqualValues(t, 12, int32(getUint(out)))
}

func TestInlineRebasesBlockAndRegisterIdentities(t *testing.T) {
	callee := buildClosedCallee()

	caller := builder.NewContext("caller", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	// Reserve a register and add a block in the caller before inlining,
	// so the splice must offset past them rather than colliding.
	_ = caller.Func.Reserve(&types.Type{Kind: types.I32})
	site := caller.AddBlock()
	caller.SetCurrent(site)
	blocksBefore := len(caller.Func.Blocks)

	require.NoError(t, Inline(caller, callee, nil))
	assert.Greater(t, len(caller.Func.Blocks), blocksBefore, "inlining must append new blocks for the callee's body plus a landing block")

	caller.AppendReturnJump()
	caller.SetCurrent(0)
	caller.AppendUncondJump(site)

	require.NoError(t, caller.Func.Verify())
}

func getUint(b []byte) uint64 {
	var v uint64
	for i := 0; i < len(b) && i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
