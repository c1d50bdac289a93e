package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icarusir/interp"
	"icarusir/ir"
	"icarusir/types"
)

func TestAssembleStoreLoadSetretRoundTrips(t *testing.T) {
	src := `
; scratch i32 slot holding 9
alloca i32 p
store i32 9 p
load i32 p v
setret 0 v
ret
`
	f, err := assemble(src, types.InterprettingMachine())
	require.NoError(t, err)
	require.NoError(t, f.Verify())

	m := interp.NewMachine()
	out := make([]byte, 4)
	require.NoError(t, m.Run(f, nil, []ir.Addr{ir.NewHeap(out, 0)}))
	assert.EqualValues(t, 9, int32(decodeLittleEndian(out)))
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	_, err := assemble("nonsense a b c\n", types.InterprettingMachine())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mnemonic")
}

func TestAssembleRejectsUnknownRegisterReference(t *testing.T) {
	_, err := assemble("load i32 ghost v\n", types.InterprettingMachine())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown register")
}

func TestAssembleSkipsBlankLinesAndComments(t *testing.T) {
	f, err := assemble("; just a comment\n\n   \nret\n", types.InterprettingMachine())
	require.NoError(t, err)
	require.NoError(t, f.Verify())
}

func decodeLittleEndian(b []byte) uint64 {
	var v uint64
	for i := 0; i < len(b) && i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
