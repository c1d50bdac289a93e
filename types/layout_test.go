package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sixtyFourBit() Arch { return InterprettingMachine() }

func TestLayoutPrimitiveSizeAlign(t *testing.T) {
	l := NewLayout(sixtyFourBit())
	assert.EqualValues(t, 1, l.SizeOf(&Type{Kind: I8}))
	assert.EqualValues(t, 4, l.SizeOf(&Type{Kind: I32}))
	assert.EqualValues(t, 8, l.SizeOf(&Type{Kind: F64}))
	assert.EqualValues(t, 8, l.SizeOf(&Type{Kind: Pointer}))
}

func TestLayoutStructFieldOffsetsPad(t *testing.T) {
	// {i8, i32, i8}: offsets 0, 4 (padded), 8; size rounds to 12.
	st := &Type{Kind: Struct, Fields: []Field{
		{Name: "a", Type: &Type{Kind: I8}},
		{Name: "b", Type: &Type{Kind: I32}},
		{Name: "c", Type: &Type{Kind: I8}},
	}}
	l := NewLayout(sixtyFourBit())
	fields := l.Fields(st)
	require.Len(t, fields, 3)
	assert.EqualValues(t, 0, fields[0].Offset)
	assert.EqualValues(t, 4, fields[1].Offset)
	assert.EqualValues(t, 8, fields[2].Offset)
	assert.EqualValues(t, 12, l.SizeOf(st))
}

func TestVariantPayloadOffsetAcrossArch(t *testing.T) {
	variant := &Type{Kind: Variant, Alternatives: []*Type{
		{Kind: I64}, {Kind: Pointer},
	}}

	l64 := NewLayout(Arch{PtrBytes: 8, PtrAlign: 8})
	assert.EqualValues(t, 8, l64.VariantPayloadOffset(variant), "tag is pointer-sized, 8 bytes on a 64-bit arch")

	l32 := NewLayout(Arch{PtrBytes: 4, PtrAlign: 4})
	assert.EqualValues(t, 8, l32.VariantPayloadOffset(variant), "the i64 alternative's 8-byte alignment moves the payload past the 4-byte tag")
}

func TestTupleLayoutOffsetsAndTotalSize(t *testing.T) {
	entries := []*Type{{Kind: I8}, {Kind: I64}, {Kind: Bool}}
	l := NewLayout(sixtyFourBit())
	size, align, offsets := l.TupleLayout(entries)
	assert.EqualValues(t, []uint32{0, 8, 16}, offsets)
	assert.EqualValues(t, 8, align)
	assert.EqualValues(t, 24, size)
}

func TestMoveForwardToAlignment(t *testing.T) {
	assert.EqualValues(t, 0, MoveForwardToAlignment(0, 8))
	assert.EqualValues(t, 8, MoveForwardToAlignment(1, 8))
	assert.EqualValues(t, 8, MoveForwardToAlignment(8, 8))
	assert.EqualValues(t, 5, MoveForwardToAlignment(5, 0), "zero alignment is a no-op, not a divide by zero")
}

func TestIsBig(t *testing.T) {
	l := NewLayout(sixtyFourBit())
	assert.True(t, l.IsBig(&Type{Kind: Struct}))
	assert.True(t, l.IsBig(&Type{Kind: Tuple}))
	assert.False(t, l.IsBig(&Type{Kind: I64}))
	assert.False(t, l.IsBig(&Type{Kind: Pointer}))
}
