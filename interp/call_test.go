package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icarusir/builder"
	"icarusir/internal/testprog"
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

func TestExecCallBindsArgumentToParamRegister(t *testing.T) {
	handle := RegisterFunc(testprog.Identity(arch()))

	ctx := builder.NewContext("caller", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	out := ctx.Func.Reserve(&types.Type{Kind: types.I32})
	ctx.Call(handle, []ir.Operand{ir.OperandInt(17)}, []builder.OutParam{{Reg: out}})
	builder.AppendSetReturn(ctx, 0, ir.RegOrReg[int32](out))
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)

	m := NewMachine()
	outBuf := make([]byte, 4)
	require.NoError(t, m.Run(ctx.Func, nil, []ir.Addr{ir.NewHeap(outBuf, 0)}))
	assert.EqualValues(t, 17, int32(getUint(outBuf, 4)))
}

func buildDoubleFunc() *ir.Func {
	ctx := builder.NewContext("double", &types.Type{Kind: types.I32}, []*types.Type{{Kind: types.I32}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	result := builder.AppendBinArith(ctx, opcode.Add, types.I32, ir.RegOrReg[int32](ir.Param(0)), ir.RegOrReg[int32](ir.Param(0)))
	builder.AppendSetReturn(ctx, 0, result)
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)
	return ctx.Func
}

func TestExecCallRunsCalleeAndBindsOutputRegister(t *testing.T) {
	callee := buildDoubleFunc()
	handle := RegisterFunc(callee)

	ctx := builder.NewContext("caller", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	out := ctx.Func.Reserve(&types.Type{Kind: types.I32})
	ctx.Call(handle, []ir.Operand{ir.OperandInt(21)}, []builder.OutParam{{Reg: out}})
	builder.AppendSetReturn(ctx, 0, ir.RegOrReg[int32](out))
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)

	m := NewMachine()
	outBuf := make([]byte, 4)
	require.NoError(t, m.Run(ctx.Func, nil, []ir.Addr{ir.NewHeap(outBuf, 0)}))
	assert.EqualValues(t, 42, int32(getUint(outBuf, 4)))
}

func TestExecCallUnresolvedTargetReturnsSentinelError(t *testing.T) {
	ctx := builder.NewContext("caller", types.Void, nil, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	ctx.Call(ir.OperandUint(999999), nil, nil)
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)

	m := NewMachine()
	err := m.Run(ctx.Func, nil, nil)
	assert.ErrorIs(t, err, ErrUnresolvedCall)
}
