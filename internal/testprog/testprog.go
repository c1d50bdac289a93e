// Package testprog builds small hand-assembled Funcs that several of the
// interp package's test files need as a stand-in callee or program, so
// each test file isn't left re-deriving the same nullary/unary shape.
// Fixtures specific to one test (e.g. one exercising a particular opcode
// edge case) stay local to that _test.go instead.
package testprog

import (
	"icarusir/builder"
	"icarusir/ir"
	"icarusir/types"
)

// ConstI32 builds the smallest possible well-formed Func: a nullary
// function whose single i32 output is the literal v, useful wherever a
// test just needs something for a Machine to Run.
func ConstI32(v int64, arch types.Arch) *ir.Func {
	ctx := builder.NewContext("const", types.Void, []*types.Type{{Kind: types.I32}}, arch)
	ctx.AddBlock()
	ctx.SetCurrent(1)
	builder.AppendSetReturn(ctx, 0, ir.RegOrImm[int64](v))
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)
	return ctx.Func
}

// Identity builds a unary i32->i32 function returning its argument
// unchanged, the smallest possible call target for exercising argument
// binding through Call.
func Identity(arch types.Arch) *ir.Func {
	ctx := builder.NewContext("identity", &types.Type{Kind: types.I32}, []*types.Type{{Kind: types.I32}}, arch)
	ctx.AddBlock()
	ctx.SetCurrent(1)
	builder.AppendSetReturn(ctx, 0, ir.RegOrReg[int32](ir.Param(0)))
	ctx.AppendReturnJump()
	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)
	return ctx.Func
}
