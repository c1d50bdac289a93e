package interp

import (
	"icarusir/ir"
	"icarusir/types"
)

// execCall implements spec.md §4.4's Calls paragraph: resolve the
// argument pack into a fresh callee argument buffer (copying registers
// or raw immediates per each arg's is-reg bit), run the callee, then
// distribute its outputs back to the caller's out-params by register
// assignment or pointer write-through.
func (m *Machine) execCall(f *ir.Func, frame *Frame, cmd ir.Cmd) error {
	callee := m.resolveFunc(frame, cmd.CallTarget)
	if callee == nil {
		return ErrUnresolvedCall
	}

	layout := types.NewLayout(callee.Arch)
	argBuf := make([]byte, callee.FrameSize)

	for i, arg := range cmd.CallArgs {
		p := ir.Param(int64(i))
		paramOffset := callee.OffsetOf(p)
		size := layout.SizeOf(callee.TypeOf(p))
		var bits uint64
		if arg.IsReg {
			bits = frame.readU64(arg.Reg, size)
		} else {
			bits = arg.Uint()
		}
		putUint(argBuf[paramOffset:paramOffset+size], bits, size)
	}

	rets := make([]ir.Addr, len(cmd.CallOutParams))
	outBufs := make([][]byte, len(cmd.CallOutParams))
	for i := range cmd.CallOutParams {
		size := layout.SizeOf(callee.OutputTypes[i])
		outBufs[i] = make([]byte, size)
		rets[i] = ir.NewHeap(outBufs[i], 0)
	}

	if err := m.Run(callee, argBuf, rets); err != nil {
		return err
	}

	for i, outReg := range cmd.CallOutParams {
		size := uint32(len(outBufs[i]))
		value := getUint(outBufs[i], size)
		if cmd.CallOutIsLoc[i] {
			m.writeAddr(cmd.CallOutAddrs[i], size, value)
		} else {
			frame.writeU64(outReg, size, value)
		}
	}
	return nil
}

// resolveFunc reads a function-value operand: an immediate is the handle
// itself, and a register operand holds a pointer-width handle read from
// the caller's frame. Either way the handle is looked up in funcTable (see
// RegisterFunc); an unknown handle resolves to nil. Foreign functions are
// not modeled, per the Open Question decision in DESIGN.md.
func (m *Machine) resolveFunc(frame *Frame, target ir.Operand) *ir.Func {
	handle := target.Uint()
	if target.IsReg {
		handle = frame.readU64(target.Reg, frame.Func.Arch.PtrBytes)
	}
	if fn, ok := funcTable[handle]; ok {
		return fn
	}
	return nil
}

// funcTable is a process-wide registry mapping an opaque function handle
// (assigned by RegisterFunc) to its *ir.Func, standing in for the
// compiler's real function-value representation per spec.md §9's
// "Dynamic typing escape hatch" note (function pointers are one of the
// tagged-union immediate kinds the core treats opaquely).
var funcTable = map[uint64]*ir.Func{}
var nextFuncHandle uint64 = 1

// RegisterFunc assigns a stable handle to f so it can be referenced as a
// Call target immediate, returning an Operand suitable for Cmd.CallTarget.
func RegisterFunc(f *ir.Func) ir.Operand {
	h := nextFuncHandle
	nextFuncHandle++
	funcTable[h] = f
	return ir.OperandUint(h)
}
