package interp

import "icarusir/ir"

// Debugger is an optional collaborator a Machine reports execution
// progress to, the single-step TUI surface spec.md §6 mentions ("A
// single-step TUI (if present) renders register file, stack, and current
// instruction"). It generalizes the teacher's breakpoint-map single-step
// mode in vm/run.go (RunProgramDebugMode) from a flat PC to block/cmd
// granularity.
type Debugger interface {
	OnBlockEnter(f *ir.Func, frame *Frame)
	OnInstruction(f *ir.Func, frame *Frame, cmd ir.Cmd)
}

// LineDebugger is a reference Debugger that halts (via a buffered
// channel handshake) whenever execution enters a breakpointed block,
// directly modeled on the teacher's breakpoint map in vm/run.go.
type LineDebugger struct {
	Breakpoints map[int]struct{}
	Halt        chan struct{}
	Resume      chan struct{}
	Trace       []string
}

func NewLineDebugger() *LineDebugger {
	return &LineDebugger{
		Breakpoints: map[int]struct{}{},
		Halt:        make(chan struct{}, 1),
		Resume:      make(chan struct{}, 1),
	}
}

func (d *LineDebugger) SetBreakpoint(block int) { d.Breakpoints[block] = struct{}{} }

func (d *LineDebugger) OnBlockEnter(f *ir.Func, frame *Frame) {
	if _, stop := d.Breakpoints[frame.Current]; !stop {
		return
	}
	d.Halt <- struct{}{}
	<-d.Resume
}

func (d *LineDebugger) OnInstruction(f *ir.Func, frame *Frame, cmd ir.Cmd) {
	d.Trace = append(d.Trace, cmd.Op.String())
}
