package interp

import (
	"math"

	"github.com/pkg/errors"

	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// Machine owns the process-wide stack buffer and global constants table
// that every Run call shares, matching spec.md §5's "interpreter stack
// buffer is owned by the current invocation" and "global constants table
// is append-only" resource rules.
type Machine struct {
	Stack    *Stack
	Globals  [][]byte
	Debugger Debugger
}

func NewMachine() *Machine {
	return &Machine{Stack: NewStack()}
}

// AddGlobal appends a compiler-initialized constant and returns its
// Global(index) address.
func (m *Machine) AddGlobal(bytes []byte) ir.Addr {
	idx := len(m.Globals)
	m.Globals = append(m.Globals, bytes)
	return ir.NewGlobal(uint64(idx))
}

// Run executes f given an argument buffer laid out per f's input type and
// a list of caller-owned return slots, implementing spec.md §4.4's
// Frame-construction and block-execution contract. It pushes one Frame,
// runs execute_block until a ReturnJump, and rewinds the stack to its
// entry watermark on return.
func (m *Machine) Run(f *ir.Func, args []byte, rets []ir.Addr) (err error) {
	f.Finalize()

	watermark := m.Stack.Watermark()
	defer m.Stack.Reset(watermark)

	frame := newFrame(f, rets)
	copy(frame.Registers, args)

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	for {
		done, jumpErr := m.executeBlock(f, frame)
		if jumpErr != nil {
			return jumpErr
		}
		if done {
			return nil
		}
	}
}

// executeBlock runs frame.Current to its terminator. Returns done=true
// once a ReturnJump has popped this frame.
func (m *Machine) executeBlock(f *ir.Func, frame *Frame) (done bool, err error) {
	block := f.Block(frame.Current)
	cur := opcode.NewCursor(block.Buffer.Bytes())

	if m.Debugger != nil {
		m.Debugger.OnBlockEnter(f, frame)
	}

	for i := 0; !cur.Done(); i++ {
		cmd := ir.DecodeNext(cur)
		// The packed form does not carry Cmd.Type (see ir.encode), so the
		// type operand comes from the structured form at the same position.
		cmd.Type = block.Instructions[i].Type
		if m.Debugger != nil {
			m.Debugger.OnInstruction(f, frame, cmd)
		}
		switch cmd.Op {
		case opcode.UncondJump:
			frame.Prev = frame.Current
			frame.Current = cmd.TrueTarget
			if frame.Current < 0 || frame.Current >= len(f.Blocks) {
				invariantViolation("jump target %d out of range", frame.Current)
			}
			return false, nil

		case opcode.CondJump:
			cond := m.resolveBool(frame, cmd.X)
			frame.Prev = frame.Current
			if cond {
				frame.Current = cmd.TrueTarget
			} else {
				frame.Current = cmd.FalseTarget
			}
			return false, nil

		case opcode.ReturnJump:
			return true, nil

		case opcode.Phi:
			val, ok := cmd.PhiTable[frame.Prev]
			if !ok {
				invariantViolation("phi at block %d has no entry for incoming block %d", frame.Current, frame.Prev)
			}
			m.storeValue(f, frame, cmd.Dest, f.TypeOf(cmd.Dest).Kind, val)

		case opcode.SetReturn:
			m.execSetReturn(f, frame, cmd)

		case opcode.Call:
			if callErr := m.execCall(f, frame, cmd); callErr != nil {
				return false, callErr
			}

		default:
			if execErr := m.execSimple(f, frame, cmd); execErr != nil {
				return false, execErr
			}
		}
	}
	invariantViolation("block %d fell off the end of its buffer without a terminator", frame.Current)
	return false, nil
}

func (m *Machine) resolveBool(frame *Frame, o ir.Operand) bool {
	if o.IsReg {
		return frame.readU64(o.Reg, 1) != 0
	}
	return o.Bool()
}

func (m *Machine) resolveUint(frame *Frame, o ir.Operand, size uint32) uint64 {
	if o.IsReg {
		return frame.readU64(o.Reg, size)
	}
	return o.Uint()
}

func (m *Machine) storeValue(f *ir.Func, frame *Frame, dest ir.Register, kind types.Kind, o ir.Operand) {
	size := types.NewLayout(f.Arch).SizeOf(&types.Type{Kind: kind})
	frame.writeU64(dest, size, m.resolveUint(frame, o, size))
}

func (m *Machine) execSetReturn(f *ir.Func, frame *Frame, cmd ir.Cmd) {
	if cmd.RetIndex < 0 || cmd.RetIndex >= len(frame.ReturnSlots) {
		invariantViolation("set-return index %d out of range (have %d outputs)", cmd.RetIndex, len(frame.ReturnSlots))
	}
	outType := f.OutputTypes[cmd.RetIndex]
	size := types.NewLayout(f.Arch).SizeOf(outType)
	value := m.resolveUint(frame, cmd.RetValue, size)

	switch {
	case cmd.OnlyGet && cmd.RetDest.IsOut():
		// An Out register names a caller-owned return slot, not frame
		// storage — the ordinary builder-emitted form of SetReturn
		// always targets Out(RetIndex), so this is the common case.
		m.writeAddr(frame.ReturnSlots[cmd.RetDest.Index()], size, value)
	case cmd.OnlyGet:
		frame.writeU64(cmd.RetDest, size, value)
	default:
		m.writeAddr(cmd.RetAddr, size, value)
	}
}

func (m *Machine) writeAddr(a ir.Addr, size uint32, value uint64) {
	dst := m.addrBytes(a, size)
	putUint(dst, value, size)
}

func (m *Machine) readAddr(a ir.Addr, size uint32) uint64 {
	return getUint(m.addrBytes(a, size), size)
}

func (m *Machine) addrBytes(a ir.Addr, size uint32) []byte {
	switch a.Kind {
	case ir.Null:
		panic(ErrNullDeref)
	case ir.Stack:
		return m.Stack.Slice(a.Offset, size)
	case ir.Heap:
		buf := a.HeapBuf()
		return buf[a.Offset : a.Offset+uint64(size)]
	case ir.Global:
		return m.Globals[a.Offset]
	default:
		panic(errors.Errorf("interp: address of invalid kind %s", a.Kind))
	}
}

func putUint(b []byte, v uint64, size uint32) {
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		b[0], b[1] = byte(v), byte(v>>8)
	case 4:
		for i := 0; i < 4; i++ {
			b[i] = byte(v >> (8 * i))
		}
	default:
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * i))
		}
	}
}

func getUint(b []byte, size uint32) uint64 {
	var v uint64
	for i := uint32(0); i < size && int(i) < len(b); i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func bitsToFloat64(bits uint64, kind types.Kind) float64 {
	if kind == types.F32 {
		return float64(math.Float32frombits(uint32(bits)))
	}
	return math.Float64frombits(bits)
}

func float64ToBits(v float64, kind types.Kind) uint64 {
	if kind == types.F32 {
		return uint64(math.Float32bits(float32(v)))
	}
	return math.Float64bits(v)
}
