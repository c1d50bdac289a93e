package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPartitioning(t *testing.T) {
	p := Param(3)
	assert.True(t, p.IsParam())
	assert.False(t, p.IsOut())
	assert.False(t, p.IsOrdinary())
	assert.EqualValues(t, 3, p.Index())

	o := Out(2)
	assert.True(t, o.IsOut())
	assert.False(t, o.IsParam())
	assert.EqualValues(t, 2, o.Index())

	r := Ordinary(7)
	assert.True(t, r.IsOrdinary())
	assert.False(t, r.IsParam())
	assert.False(t, r.IsOut())
	assert.EqualValues(t, 7, r.Index())
}

func TestRegOrFoldsImmediateOrReg(t *testing.T) {
	imm := RegOrImm[int64](42)
	assert.False(t, imm.IsReg())
	assert.EqualValues(t, 42, imm.Imm())

	reg := RegOrReg[int64](Ordinary(1))
	assert.True(t, reg.IsReg())
	assert.Equal(t, Ordinary(1), reg.Reg())
}
