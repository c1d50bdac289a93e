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

func arch() types.Arch { return types.InterprettingMachine() }

func TestRunWritesSetReturnThroughCallerReturnSlot(t *testing.T) {
	f := testprog.ConstI32(41, arch())
	m := NewMachine()
	out := make([]byte, 4)
	rets := []ir.Addr{ir.NewHeap(out, 0)}

	require.NoError(t, m.Run(f, nil, rets))
	assert.EqualValues(t, 41, int32(getUint(out, 4)))
}

func TestRunArithmeticAddThenSetReturn(t *testing.T) {
	ctx := builder.NewContext("add", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	sum := builder.AppendBinArith(ctx, opcode.Add, types.I32, ir.RegOrImm[int32](2), ir.RegOrReg[int32](mustEmitI32(ctx, 3)))
	builder.AppendSetReturn(ctx, 0, sum)
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)

	m := NewMachine()
	out := make([]byte, 4)
	require.NoError(t, m.Run(ctx.Func, nil, []ir.Addr{ir.NewHeap(out, 0)}))
	assert.EqualValues(t, 5, int32(getUint(out, 4)))
}

// mustEmitI32 puts an immediate into a register through an alloca, a
// store and a load, since an all-immediate AppendBinArith call
// folds away entirely and the test wants an actually-emitted instruction.
func mustEmitI32(ctx *builder.Context, v int32) ir.Register {
	alloc := ctx.Alloca(&types.Type{Kind: types.I32})
	builder.AppendStore(ctx, types.I32, alloc, ir.RegOrImm(v))
	return builder.AppendLoad(ctx, types.I32, alloc)
}

func TestAddrBytesPanicsWithNullDerefSentinel(t *testing.T) {
	m := NewMachine()
	assert.PanicsWithValue(t, ErrNullDeref, func() { m.addrBytes(ir.Addr{}, 4) })
}

func TestRunLoadThroughNullEncodedRegisterReturnsNullDeref(t *testing.T) {
	ctx := builder.NewContext("deref", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	// A zero-valued pointer register decodes to the Null address, exactly
	// the bit pattern encodeAddrBits produces for ir.Addr{} — forcing it
	// via an i64 immediate avoids depending on any particular Alloca.
	nullPtr := mustEmitI64(ctx, 0)
	builder.AppendLoad(ctx, types.I32, nullPtr)
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)

	m := NewMachine()
	err := m.Run(ctx.Func, nil, nil)
	assert.ErrorIs(t, err, ErrNullDeref)
}

func mustEmitI64(ctx *builder.Context, v int64) ir.Register {
	alloc := ctx.Alloca(&types.Type{Kind: types.I64})
	builder.AppendStore(ctx, types.I64, alloc, ir.RegOrImm(v))
	return builder.AppendLoad(ctx, types.I64, alloc)
}

func TestRunDivisionByZeroReturnsSentinelError(t *testing.T) {
	ctx := builder.NewContext("divzero", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	x := mustEmitI32(ctx, 10)
	zero := mustEmitI32(ctx, 0)
	result := builder.AppendBinArith(ctx, opcode.Div, types.I32, ir.RegOrReg[int32](x), ir.RegOrReg[int32](zero))
	builder.AppendSetReturn(ctx, 0, result)
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)

	m := NewMachine()
	out := make([]byte, 4)
	err := m.Run(ctx.Func, nil, []ir.Addr{ir.NewHeap(out, 0)})
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestRunRewindsStackWatermarkAfterReturn(t *testing.T) {
	ctx := builder.NewContext("alloc", types.Void, []*types.Type{{Kind: types.I32}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	_ = ctx.Alloca(&types.Type{Kind: types.I64})
	builder.AppendSetReturn(ctx, 0, ir.RegOrImm[int64](1))
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)

	m := NewMachine()
	before := m.Stack.Watermark()
	out := make([]byte, 4)
	require.NoError(t, m.Run(ctx.Func, nil, []ir.Addr{ir.NewHeap(out, 0)}))
	assert.Equal(t, before, m.Stack.Watermark(), "the stack must be rewound to its entry watermark on return")
}
