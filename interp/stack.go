package interp

import "github.com/pkg/errors"

// Stack is the process-wide linear byte buffer Alloca pushes into. It
// grows on demand and is never shrunk on ordinary frame exit — frames
// instead record and restore a watermark, the same "disable GC, reuse a
// growable buffer" performance posture the teacher takes in vm/run.go
// (RunProgram disables GC around execution). Nested CTE invocations
// (spec.md §4.5 "Guarantees") push and pop at their own watermark so
// reentrant evaluation composes correctly; concurrent invocations would
// collide and are explicitly unsupported (spec.md §5).
type Stack struct {
	buf []byte
}

const initialStackCapacity = 4096

func NewStack() *Stack {
	return &Stack{buf: make([]byte, 0, initialStackCapacity)}
}

// Watermark returns the current high-water byte offset, to be passed to
// Reset once the owning frame (or nested evaluation) is done with its
// allocations.
func (s *Stack) Watermark() uint64 { return uint64(len(s.buf)) }

// Reset truncates the stack back to watermark. It does not zero memory;
// callers must not read through a Stack(offset) Addr created after the
// region it pointed into has been reset.
func (s *Stack) Reset(watermark uint64) {
	s.buf = s.buf[:watermark]
}

// Alloca pushes size bytes aligned to align and returns the Stack(offset)
// address of the reserved region, per spec.md §3's Stack entity.
func (s *Stack) Alloca(size, align uint32) uint64 {
	offset := alignUp(uint64(len(s.buf)), uint64(align))
	need := offset + uint64(size)
	if need > uint64(cap(s.buf)) {
		grown := make([]byte, need, need*2)
		copy(grown, s.buf)
		s.buf = grown
	} else if need > uint64(len(s.buf)) {
		s.buf = s.buf[:need]
	}
	return offset
}

func alignUp(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	if rem := offset % align; rem != 0 {
		return offset + (align - rem)
	}
	return offset
}

// Slice returns the size bytes starting at offset, suitable for Load.
func (s *Stack) Slice(offset uint64, size uint32) []byte {
	if offset+uint64(size) > uint64(len(s.buf)) {
		panic(errors.Errorf("interp: stack read [%d:%d] out of bounds (len=%d)", offset, offset+uint64(size), len(s.buf)))
	}
	return s.buf[offset : offset+uint64(size)]
}
