package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

func TestAppendBinArithFoldsPureImmediates(t *testing.T) {
	ctx := NewContext("f", types.Void, nil, types.InterprettingMachine())
	ctx.AddBlock()
	ctx.SetCurrent(1)

	result := AppendBinArith[int64](ctx, opcode.Mul, types.I64, ir.RegOrImm[int64](3), ir.RegOrImm[int64](4))
	assert.False(t, result.IsReg(), "both operands are compile-time immediates, so nothing should be emitted")
	assert.EqualValues(t, 12, result.Imm())
	assert.Empty(t, ctx.Func.Block(1).Instructions, "a fully folded arithmetic op appends no instruction")
}

func TestAppendBinArithEmitsWhenEitherSideIsRegister(t *testing.T) {
	ctx := NewContext("f", &types.Type{Kind: types.I64}, nil, types.InterprettingMachine())
	ctx.AddBlock()
	ctx.SetCurrent(1)

	x := ir.RegOrReg[int64](ir.Param(0))
	y := ir.RegOrImm[int64](5)
	result := AppendBinArith(ctx, opcode.Add, types.I64, x, y)

	require.True(t, result.IsReg())
	instrs := ctx.Func.Block(1).Instructions
	require.Len(t, instrs, 1)
	assert.Equal(t, opcode.Add, instrs[0].Op)
	assert.Equal(t, result.Reg(), instrs[0].Dest)
	loc, ok := ctx.Func.ReverseMap[result.Reg()]
	require.True(t, ok, "every emitted register must be recorded in the reverse map immediately")
	assert.Equal(t, 1, loc.Block)
	assert.Equal(t, 0, loc.Cmd)
}

func TestAppendBinArithConstantFoldDivByZeroPanics(t *testing.T) {
	ctx := NewContext("f", types.Void, nil, types.InterprettingMachine())
	ctx.AddBlock()
	ctx.SetCurrent(1)

	assert.Panics(t, func() {
		AppendBinArith[int64](ctx, opcode.Div, types.I64, ir.RegOrImm[int64](1), ir.RegOrImm[int64](0))
	})
}

func TestAppendCompareFolds(t *testing.T) {
	ctx := NewContext("f", types.Void, nil, types.InterprettingMachine())
	ctx.AddBlock()
	ctx.SetCurrent(1)

	result := AppendCompare[int64](ctx, opcode.Lt, types.I64, ir.RegOrImm[int64](2), ir.RegOrImm[int64](5))
	assert.False(t, result.IsReg())
	assert.True(t, result.Imm())
}
