package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperandFloatRoundTrip(t *testing.T) {
	o32 := OperandFloat32(3.5)
	assert.Equal(t, float32(3.5), o32.Float32())

	o64 := OperandFloat64(2.25)
	assert.Equal(t, 2.25, o64.Float64())
}

func TestOperandBoolAndUint(t *testing.T) {
	assert.True(t, OperandBool(true).Bool())
	assert.False(t, OperandBool(false).Bool())
	assert.EqualValues(t, 9, OperandUint(9).Uint())
}

func TestAddrIncrPreservesKindAndBacking(t *testing.T) {
	buf := make([]byte, 16)
	a := NewHeap(buf, 4)
	b := a.Incr(4)
	assert.Equal(t, Heap, b.Kind)
	assert.EqualValues(t, 8, b.Offset)
	assert.Same(t, &buf[0], &b.HeapBuf()[0])
}

func TestNullAddrIsNull(t *testing.T) {
	var a Addr
	assert.True(t, a.IsNull())
	assert.False(t, NewStack(0).IsNull())
}

func TestEncodeAddrOperandRoundTripsStackAndGlobal(t *testing.T) {
	for _, a := range []Addr{NewStack(128), NewGlobal(3)} {
		o := EncodeAddrOperand(a)
		got := o.Addr()
		assert.Equal(t, a.Kind, got.Kind)
		assert.Equal(t, a.Offset, got.Offset)
	}
}
