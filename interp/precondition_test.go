package interp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"icarusir/builder"
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// buildPositivePrecondition returns a bool function checking its single
// i32 argument is greater than zero.
func buildPositivePrecondition() *ir.Func {
	ctx := builder.NewContext("positive", &types.Type{Kind: types.I32}, []*types.Type{{Kind: types.Bool}}, arch())
	ctx.AddBlock()
	ctx.SetCurrent(1)
	cmp := builder.AppendCompare(ctx, opcode.Gt, types.I32, ir.RegOrReg[int32](ir.Param(0)), ir.RegOrImm[int32](0))
	builder.AppendSetReturn(ctx, 0, ir.RegOrReg[int64](cmp.Reg()))
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)
	return ctx.Func
}

func TestCheckPreconditionsPassesWhenAllSucceed(t *testing.T) {
	f := &ir.Func{Preconditions: []*ir.Func{buildPositivePrecondition()}}
	args := make([]byte, 4)
	args[0] = 5
	assert.NoError(t, CheckPreconditions(context.Background(), f, args))
}

func TestCheckPreconditionsFailsWithSentinelError(t *testing.T) {
	f := &ir.Func{Preconditions: []*ir.Func{buildPositivePrecondition()}}
	args := make([]byte, 4) // zero value fails "> 0"
	err := CheckPreconditions(context.Background(), f, args)
	assert.ErrorIs(t, err, ErrFailedPrecondition)
}

func TestCheckPreconditionsNoOpWhenNoneAttached(t *testing.T) {
	f := &ir.Func{}
	assert.NoError(t, CheckPreconditions(context.Background(), f, nil))
}
