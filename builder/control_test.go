package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

func TestMustTerminatePanicsOnDoubleTerminator(t *testing.T) {
	ctx := NewContext("f", types.Void, nil, types.InterprettingMachine())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	ctx.AppendReturnJump()

	assert.Panics(t, func() { ctx.AppendReturnJump() })
}

func TestPhiPlaceholderThenMakePhiPatchesTable(t *testing.T) {
	ctx := NewContext("f", types.Void, nil, types.InterprettingMachine())
	left := ctx.AddBlock()
	right := ctx.AddBlock()
	merge := ctx.AddBlock()

	ctx.SetCurrent(left)
	ctx.AppendUncondJump(merge)
	ctx.SetCurrent(right)
	ctx.AppendUncondJump(merge)

	ctx.SetCurrent(merge)
	dest, block, idx := ctx.Phi(&types.Type{Kind: types.I32})
	require.Equal(t, merge, block)

	ctx.MakePhi(block, idx, map[int]ir.Operand{
		left:  ir.OperandInt(1),
		right: ir.OperandInt(2),
	})

	decoded := ctx.Func.Block(merge).Decode()
	require.Len(t, decoded, 1)
	assert.Equal(t, opcode.Phi, decoded[0].Op)
	assert.Equal(t, dest, decoded[0].Dest)
	assert.Len(t, decoded[0].PhiTable, 2)
	assert.Equal(t, ir.OperandInt(1), decoded[0].PhiTable[left])
}

func TestAppendSetReturnBindsOutputRegister(t *testing.T) {
	ctx := NewContext("f", types.Void, []*types.Type{{Kind: types.I64}}, types.InterprettingMachine())
	ctx.AddBlock()
	ctx.SetCurrent(1)

	AppendSetReturn(ctx, 0, ir.RegOrImm[int64](9))

	instrs := ctx.Func.Block(1).Instructions
	require.Len(t, instrs, 1)
	assert.Equal(t, ir.Out(0), instrs[0].RetDest)
	assert.True(t, instrs[0].OnlyGet)
}
