package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"icarusir/types"
)

func TestControlBitsPacksFlagsAndKind(t *testing.T) {
	b := MakeControlBits(true, false, types.F64)
	assert.True(t, b.XIsReg())
	assert.False(t, b.YIsReg())
	assert.Equal(t, types.F64, b.Kind())

	b2 := MakeControlBits(false, true, types.I8)
	assert.False(t, b2.XIsReg())
	assert.True(t, b2.YIsReg())
	assert.Equal(t, types.I8, b2.Kind())
}

func TestOpClassification(t *testing.T) {
	assert.True(t, ReturnJump.IsTerminator())
	assert.True(t, CondJump.IsTerminator())
	assert.False(t, Add.IsTerminator())

	assert.True(t, Add.HasDest())
	assert.False(t, Store.HasDest())
	assert.False(t, Call.HasDest())
	assert.False(t, SetReturn.HasDest())
}

func TestCmdBufferCursorRoundTrip(t *testing.T) {
	var buf CmdBuffer
	buf.AppendOp(Add)
	buf.AppendControlBits(MakeControlBits(true, false, types.I32))
	buf.AppendU64(7)
	buf.AppendU32(42)

	cur := NewCursor(buf.Bytes())
	assert.Equal(t, Add, cur.ReadOp())
	bits := cur.ReadControlBits()
	assert.True(t, bits.XIsReg())
	assert.EqualValues(t, 7, cur.ReadU64())
	assert.EqualValues(t, 42, cur.ReadU32())
	assert.True(t, cur.Done())
}
