package interp

import (
	"encoding/binary"

	"icarusir/ir"
)

// Frame is the interpreter's per-invocation record: the function being
// executed, current and previous block indices (previous is needed to
// resolve Phi), a byte buffer sized to the function's current frame
// size, and the caller-provided return slots, per spec.md §3's Frame entity.
type Frame struct {
	Func        *ir.Func
	Current     int
	Prev        int
	Registers   []byte
	ReturnSlots []ir.Addr
}

func newFrame(f *ir.Func, rets []ir.Addr) *Frame {
	return &Frame{
		Func:        f,
		Current:     0,
		Prev:        -1,
		Registers:   make([]byte, f.FrameSize),
		ReturnSlots: rets,
	}
}

func (fr *Frame) regBytes(r ir.Register, size uint32) []byte {
	if r.IsOut() {
		panic("interp: Out registers have no frame storage")
	}
	off := fr.Func.OffsetOf(r)
	return fr.Registers[off : off+size]
}

func (fr *Frame) writeU64(r ir.Register, size uint32, v uint64) {
	b := fr.regBytes(r, size)
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default:
		binary.LittleEndian.PutUint64(b, v)
	}
}

func (fr *Frame) readU64(r ir.Register, size uint32) uint64 {
	b := fr.regBytes(r, size)
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}
