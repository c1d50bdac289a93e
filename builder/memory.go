package builder

import (
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// Alloca emits a stack allocation for a value of type t. Per spec.md
// §4.2, an alloca is always emitted into the entry block regardless of
// the current cursor, so every allocation in a function is grouped
// there; the builder restores the caller's cursor afterward. It also
// records the (register, type) pair in the function's allocation table,
// which the inliner later walks to merge callee allocations into a caller.
func (c *Context) Alloca(t *types.Type) ir.Register {
	saved := c.current
	c.current = 0
	dest := c.Reserve(types.NewPointer(t))
	c.append(ir.Cmd{Op: opcode.Alloca, Dest: dest, Type: t})
	c.Func.RecordAlloca(dest, t)
	c.current = saved
	return dest
}

// AppendLoad emits Load_T(addr).
func AppendLoad(ctx *Context, kind types.Kind, addr ir.Register) ir.Register {
	dest := ctx.Reserve(&types.Type{Kind: kind})
	ctx.append(ir.Cmd{Op: opcode.Load, Dest: dest, Kind: kind, X: ir.OperandReg(addr)})
	return dest
}

// AppendStore emits Store_T(addr, v).
func AppendStore[T Numeric](ctx *Context, kind types.Kind, addr ir.Register, v ir.RegOr[T]) {
	ctx.append(ir.Cmd{Op: opcode.Store, Kind: kind, X: ir.OperandReg(addr), Y: regOrToOperand(v)})
}

// AppendPtrIncr emits PtrIncr(ptr, n, elemType): advances ptr by
// n * aligned_size_of(elemType).
func AppendPtrIncr(ctx *Context, ptr ir.Register, n ir.RegOr[int64], elemType *types.Type) ir.Register {
	dest := ctx.Reserve(types.NewPointer(elemType))
	ctx.append(ir.Cmd{
		Op:   opcode.PtrIncr,
		Dest: dest,
		Type: elemType,
		X:    ir.OperandReg(ptr),
		Y:    regOrToOperand(n),
	})
	return dest
}

// AppendField emits Field(ptr, structTy, n): ptr + precomputed_offset.
func AppendField(ctx *Context, ptr ir.Register, structTy *types.Type, fieldIndex uint32) ir.Register {
	fieldType := structTy.Fields[fieldIndex].Type
	dest := ctx.Reserve(types.NewPointer(fieldType))
	ctx.append(ir.Cmd{Op: opcode.Field, Dest: dest, Type: structTy, X: ir.OperandReg(ptr), FieldIndex: fieldIndex})
	return dest
}

// AppendVariantType emits VariantType(ptr): the tag address, which is ptr
// itself since the tag is stored first.
func AppendVariantType(ctx *Context, ptr ir.Register) ir.Register {
	dest := ctx.Reserve(types.NewPointer(&types.Type{Kind: types.Pointer}))
	ctx.append(ir.Cmd{Op: opcode.VariantType, Dest: dest, X: ir.OperandReg(ptr)})
	return dest
}

// AppendVariantValue emits VariantValue(ptr): ptr + aligned(sizeof(tag)).
func AppendVariantValue(ctx *Context, ptr ir.Register, variantTy *types.Type) ir.Register {
	dest := ctx.Reserve(types.NewPointer(variantTy))
	ctx.append(ir.Cmd{Op: opcode.VariantValue, Dest: dest, Type: variantTy, X: ir.OperandReg(ptr)})
	return dest
}

// AppendArrayLength/AppendArrayData implement the non-fixed-array layout
// convention: length stored first, data immediately after a leading i32.
func AppendArrayLength(ctx *Context, ptr ir.Register) ir.Register {
	dest := ctx.Reserve(types.NewPointer(&types.Type{Kind: types.I32}))
	ctx.append(ir.Cmd{Op: opcode.ArrayLength, Dest: dest, X: ir.OperandReg(ptr)})
	return dest
}

func AppendArrayData(ctx *Context, ptr ir.Register, elem *types.Type) ir.Register {
	dest := ctx.Reserve(types.NewPointer(elem))
	ctx.append(ir.Cmd{Op: opcode.ArrayData, Dest: dest, Type: elem, X: ir.OperandReg(ptr)})
	return dest
}
