// Package cte is the compile-time evaluation driver: it wraps an
// arbitrary expression into an ad-hoc nullary IR function, runs the
// interpreter on it, and decodes the result back into typed constant
// values, per spec.md §4.5. It is the bridge between the (external)
// elaborator and the core interpreter.
package cte

import (
	"fmt"
	"math"

	"icarusir/ast"
	"icarusir/builder"
	"icarusir/diag"
	"icarusir/interp"
	"icarusir/ir"
	"icarusir/types"
)

// TypedValue is one decoded output of an evaluated expression: its
// static type paired with the raw bytes the interpreter produced for it.
type TypedValue struct {
	Type  *types.Type
	Bytes []byte
}

func (v TypedValue) AsInt64() int64 {
	return int64(decodeUint(v.Bytes))
}

func (v TypedValue) AsUint64() uint64 { return decodeUint(v.Bytes) }

func (v TypedValue) AsBool() bool { return decodeUint(v.Bytes) != 0 }

func (v TypedValue) AsFloat64() float64 {
	bits := decodeUint(v.Bytes)
	if v.Type.Kind == types.F32 {
		return float64(math.Float32frombits(uint32(bits)))
	}
	return math.Float64frombits(bits)
}

func decodeUint(b []byte) uint64 {
	var v uint64
	for i := 0; i < len(b) && i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// Context bundles the collaborators one Evaluate call needs: the shared
// interpreter Machine (owns the process-wide stack, per spec.md §5) and
// the diagnostic sink errors get reported to.
type Context struct {
	Machine *interp.Machine
	Diag    *diag.Context
	Arch    types.Arch
}

func NewContext(machine *interp.Machine, diagCtx *diag.Context, arch types.Arch) *Context {
	return &Context{Machine: machine, Diag: diagCtx, Arch: arch}
}

// outputTypes decomposes t per spec.md §9's resolved Open Question:
// a tuple type's entries are the outputs; any other type is a single
// output. The empty tuple (types.Void) yields zero outputs.
func outputTypes(t *types.Type) []*types.Type {
	if t.Kind == types.Tuple {
		return t.Entries
	}
	return []*types.Type{t}
}

// Evaluate implements the public contract evaluate(expr, ctx) -> List
// <TypedValue>, following the six steps of spec.md §4.5 in order,
// including the double-entry-block trick in step 3: the entry block is
// filled with UncondJump(start) only after start has been populated, so
// any Alloca the body pushed (which always lands in the entry block
// regardless of emission cursor, per the builder's Alloca contract)
// ends up exactly where the interpreter expects it.
func Evaluate(ctx *Context, expr ast.Expression) ([]TypedValue, error) {
	// Step 1: short-circuit if the context already has errors.
	if ctx.Diag != nil && ctx.Diag.HasErrors() {
		return nil, nil
	}

	bc := builder.NewContext("$cte", types.Void, nil, ctx.Arch)

	exprType, err := expr.TypeIn(bc)
	if err != nil {
		ctx.report(diag.Elaboration, "", err.Error())
		return nil, nil
	}
	outTypes := outputTypes(exprType)
	bc.Func.OutputTypes = outTypes

	// Step 2 done implicitly above (fresh nullary Func already built by
	// NewContext with Void input and now-assigned output types).

	// Step 3: create "start", emit the body there, SetReturn each result,
	// ReturnJump, then back-patch the entry block's jump to start.
	start := bc.AddBlock()
	bc.SetCurrent(start)

	values, err := expr.EmitIR(bc)
	if err != nil {
		ctx.report(diag.Elaboration, "", err.Error())
		return nil, nil
	}
	if len(values) != len(outTypes) {
		return nil, fmt.Errorf("cte: expression produced %d values for %d outputs", len(values), len(outTypes))
	}
	for i, v := range values {
		emitSetReturn(bc, i, v)
	}
	bc.AppendReturnJump()

	bc.SetCurrent(0)
	bc.AppendUncondJump(start)

	// Step 4: allocate a heap return buffer sized to the outputs, build
	// one Heap(addr) slot per output at its tuple offset.
	layout := types.NewLayout(ctx.Arch)
	totalSize, _, offsets := layout.TupleLayout(outTypes)
	buf := make([]byte, totalSize)
	rets := make([]ir.Addr, len(outTypes))
	for i := range outTypes {
		rets[i] = ir.NewHeap(buf, uint64(offsets[i]))
	}

	// Step 5: run the interpreter on an empty argument buffer.
	if err := ctx.Machine.Run(bc.Func, nil, rets); err != nil {
		ctx.reportRuntimeError(err)
		return nil, nil
	}

	// Step 6: decode the output buffer into typed values.
	out := make([]TypedValue, len(outTypes))
	for i, t := range outTypes {
		size := layout.SizeOf(t)
		out[i] = TypedValue{Type: t, Bytes: buf[offsets[i] : offsets[i]+size]}
	}
	return out, nil
}

func emitSetReturn(bc *builder.Context, index int, v ast.Value) {
	switch val := v.(type) {
	case ir.RegOr[int64]:
		builder.AppendSetReturn(bc, index, val)
	case ir.RegOr[int32]:
		builder.AppendSetReturn(bc, index, val)
	case ir.RegOr[uint64]:
		builder.AppendSetReturn(bc, index, val)
	case ir.RegOr[uint32]:
		builder.AppendSetReturn(bc, index, val)
	case ir.RegOr[float64]:
		builder.AppendSetReturn(bc, index, val)
	case ir.RegOr[float32]:
		builder.AppendSetReturn(bc, index, val)
	case ir.RegOr[bool]:
		boolAsInt := ir.RegOrImm[int64](0)
		if !val.IsReg() {
			if val.Imm() {
				boolAsInt = ir.RegOrImm[int64](1)
			}
			builder.AppendSetReturn(bc, index, boolAsInt)
		} else {
			builder.AppendSetReturn(bc, index, ir.RegOrReg[int64](val.Reg()))
		}
	default:
		panic(fmt.Sprintf("cte: emitSetReturn: unsupported result value type %T", v))
	}
}

func (ctx *Context) report(kind diag.Kind, span, msg string) {
	if ctx.Diag != nil {
		ctx.Diag.Report(diag.Diagnostic{Kind: kind, Span: span, Message: msg})
	}
}

// reportRuntimeError maps an interp sentinel error to the diag.Kind
// taxonomy from spec.md §7's Interpreter-runtime-errors row, aborting
// only this evaluation.
func (ctx *Context) reportRuntimeError(err error) {
	kind := diag.Elaboration
	switch {
	case isErr(err, interp.ErrNullDeref):
		kind = diag.NullDereference
	case isErr(err, interp.ErrDivByZero):
		kind = diag.DivisionByZero
	case isErr(err, interp.ErrUnresolvedCall):
		kind = diag.UnresolvedCall
	case isErr(err, interp.ErrFailedPrecondition):
		kind = diag.FailedPrecondition
	}
	ctx.report(kind, "", err.Error())
}

func isErr(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
