package opcode

import "encoding/binary"

// CmdBuffer is the packed, linear encoding of one BasicBlock's
// instructions, the authoritative form the interpreter executes. It is
// deliberately a format private to one process invocation (see spec.md's
// "Encoding stability" note), so we keep every operand slot a fixed 8
// bytes rather than packing variable-width fields: the interpreter's
// dispatch loop and BasicBlock.Decode both walk it with the same Cursor
// through ir.DecodeNext, which is the load-bearing symmetry spec.md §4.1
// calls out, and a uniform slot width keeps that cursor a single
// arithmetic step instead of a per-opcode width table. The inliner and
// the dumper read a block's structured instructions instead of these
// bytes.
type CmdBuffer struct {
	buf []byte
}

const slotWidth = 8

func (c *CmdBuffer) Len() int { return len(c.buf) }

func (c *CmdBuffer) Bytes() []byte { return c.buf }

func (c *CmdBuffer) AppendOp(op Op) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], uint16(op))
	c.buf = append(c.buf, tmp[:]...)
}

func (c *CmdBuffer) AppendControlBits(b ControlBits) {
	c.buf = append(c.buf, byte(b))
}

func (c *CmdBuffer) AppendU64(v uint64) {
	var tmp [slotWidth]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	c.buf = append(c.buf, tmp[:]...)
}

func (c *CmdBuffer) AppendU32(v uint32) { c.AppendU64(uint64(v)) }
func (c *CmdBuffer) AppendU16(v uint16) { c.AppendU64(uint64(v)) }
func (c *CmdBuffer) AppendU8(v uint8)   { c.AppendU64(uint64(v)) }

// AppendBytes writes a raw byte slice preceded by its length. The
// instruction encoder does not call it; call arguments are written one
// operand slot at a time.
func (c *CmdBuffer) AppendBytes(p []byte) {
	c.AppendU64(uint64(len(p)))
	c.buf = append(c.buf, p...)
}

// Cursor reads a CmdBuffer back out in the exact order it was appended.
// The interpreter and BasicBlock.Decode each construct their own Cursor
// over the same underlying bytes; neither mutates the buffer.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor { return &Cursor{buf: buf} }

func (c *Cursor) Pos() int      { return c.pos }
func (c *Cursor) Done() bool    { return c.pos >= len(c.buf) }
func (c *Cursor) SeekTo(pos int) { c.pos = pos }

func (c *Cursor) ReadOp() Op {
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return Op(v)
}

func (c *Cursor) ReadControlBits() ControlBits {
	b := ControlBits(c.buf[c.pos])
	c.pos++
	return b
}

func (c *Cursor) ReadU64() uint64 {
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += slotWidth
	return v
}

func (c *Cursor) ReadU32() uint32 { return uint32(c.ReadU64()) }
func (c *Cursor) ReadU16() uint16 { return uint16(c.ReadU64()) }
func (c *Cursor) ReadU8() uint8   { return uint8(c.ReadU64()) }

func (c *Cursor) ReadBytes() []byte {
	n := int(c.ReadU64())
	p := c.buf[c.pos : c.pos+n]
	c.pos += n
	return p
}

// PeekOp reports the opcode at the cursor's current position without
// advancing it.
func (c *Cursor) PeekOp() Op {
	return Op(binary.LittleEndian.Uint16(c.buf[c.pos:]))
}
