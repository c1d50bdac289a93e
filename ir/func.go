package ir

import (
	"fmt"

	"icarusir/types"
)

// funcState implements the lifecycle in spec.md §4.6: Built -> optional
// Validated -> Executable, the last transition a one-time finalization
// triggered by the interpreter's first execution of the function.
type funcState uint8

const (
	Built funcState = iota
	Validated
	Executable
)

func (s funcState) String() string {
	switch s {
	case Built:
		return "built"
	case Validated:
		return "validated"
	case Executable:
		return "executable"
	default:
		return "unknown"
	}
}

// Loc identifies the (block, instruction) position that defines a register.
type Loc struct {
	Block, Cmd int
}

// AllocaSlot is one entry in a Func's stack-allocation table: every
// Alloca anywhere in the function, regardless of which block emitted it,
// recorded in the order allocated. The inliner walks this table to merge
// a callee's allocations into its caller (spec.md §4.3 step 4).
type AllocaSlot struct {
	Reg  Register
	Type *types.Type
}

// Func is a compiled unit: an input type, ordered output types, an
// ordered sequence of basic blocks (first is the entry), and the
// bookkeeping the builder and interpreter both need — frame geometry,
// the reverse def map, the allocation table, and optional preconditions.
type Func struct {
	Name        string
	InputType   *types.Type
	OutputTypes []*types.Type
	Arch        types.Arch

	Blocks []*BasicBlock

	FrameSize  uint32
	FrameAlign uint32

	nextOrdinary int64
	ReverseMap   map[Register]Loc

	// Offsets maps every Param and Ordinary register to its byte offset
	// within the frame's register file. Out registers never appear here:
	// they address caller-owned return slots instead (spec.md §3 Frame).
	Offsets map[Register]uint32
	Types   map[Register]*types.Type

	Allocas []AllocaSlot

	Preconditions []*Func

	state funcState
}

// NewFunc constructs a function with a single empty entry block and
// reserves parameter registers aligned to their types, per the builder
// contract in spec.md §4.2 (new_func).
func NewFunc(name string, input *types.Type, outputs []*types.Type, arch types.Arch) *Func {
	f := &Func{
		Name:        name,
		InputType:   input,
		OutputTypes: outputs,
		Arch:        arch,
		ReverseMap:  map[Register]Loc{},
		Offsets:     map[Register]uint32{},
		Types:       map[Register]*types.Type{},
		FrameAlign:  1,
	}
	f.Blocks = append(f.Blocks, NewBasicBlock(0))

	layout := types.NewLayout(arch)
	entries := input.Entries
	if input.Kind != types.Tuple {
		entries = []*types.Type{input}
	}
	for i, t := range entries {
		offset := f.bumpFrame(layout, t)
		p := Param(int64(i))
		f.Offsets[p] = offset
		f.Types[p] = t
	}
	return f
}

func (f *Func) bumpFrame(layout types.Layout, t *types.Type) uint32 {
	align := layout.AlignOf(t)
	if align > f.FrameAlign {
		f.FrameAlign = align
	}
	offset := types.MoveForwardToAlignment(f.FrameSize, align)
	f.FrameSize = offset + layout.SizeOf(t)
	return offset
}

// Reserve advances the frame, aligning to t, and returns a fresh ordinary
// register for a value of type t. Used by the builder for every
// instruction result and by the inliner for every rebased alloca. The
// new register's offset satisfies offset % align(t) == 0, Testable
// Property 5 (spec.md §8).
func (f *Func) Reserve(t *types.Type) Register {
	layout := types.NewLayout(f.Arch)
	offset := f.bumpFrame(layout, t)
	r := Ordinary(f.nextOrdinary)
	f.nextOrdinary++
	f.Offsets[r] = offset
	f.Types[r] = t
	return r
}

// OffsetOf returns r's byte offset within the frame's register file.
// Panics for Out registers, which have no frame storage.
func (f *Func) OffsetOf(r Register) uint32 {
	off, ok := f.Offsets[r]
	if !ok {
		panic(fmt.Sprintf("ir: register %s has no frame offset", r))
	}
	return off
}

// TypeOf returns the type r was reserved with.
func (f *Func) TypeOf(r Register) *types.Type {
	return f.Types[r]
}

// NextOrdinary returns the ordinary-register index Reserve would hand out
// next, without reserving anything. The inliner snapshots this as the
// register base for a callee splice (spec.md §4.3 step 1).
func (f *Func) NextOrdinary() int64 { return f.nextOrdinary }

// AddBlock appends an empty block and returns its index.
func (f *Func) AddBlock() int {
	idx := len(f.Blocks)
	f.Blocks = append(f.Blocks, NewBasicBlock(idx))
	return idx
}

// Block returns the block at index, panicking if out of range — an
// out-of-range block reference is always a programmer error in the core
// per spec.md §7's IR-construction-invariant category.
func (f *Func) Block(index int) *BasicBlock {
	if index < 0 || index >= len(f.Blocks) {
		panic(fmt.Sprintf("ir: block index %d out of range (have %d blocks)", index, len(f.Blocks)))
	}
	return f.Blocks[index]
}

// Entry returns the function's entry block.
func (f *Func) Entry() *BasicBlock { return f.Blocks[0] }

// RecordDef fills ReverseMap for a just-appended instruction at (block,
// cmd) that produces dest. The builder calls this immediately after
// BasicBlock.Append for any Cmd with HasDest().
func (f *Func) RecordDef(dest Register, block, cmd int) {
	f.ReverseMap[dest] = Loc{Block: block, Cmd: cmd}
}

// RecordAlloca appends to the stack-allocation table.
func (f *Func) RecordAlloca(reg Register, t *types.Type) {
	f.Allocas = append(f.Allocas, AllocaSlot{Reg: reg, Type: t})
}

// State reports the function's current lifecycle state.
func (f *Func) State() funcState { return f.state }

// MarkValidated transitions Built -> Validated after precondition
// dataflow analysis has run. It is a no-op past Built.
func (f *Func) MarkValidated() {
	if f.state == Built {
		f.state = Validated
	}
}

// Finalize transitions the function to Executable, called by the
// interpreter on first execution. Subsequent calls leave it Executable.
// The builder does not check this state, so appends to an Executable
// function are not refused.
func (f *Func) Finalize() {
	f.state = Executable
}

// Verify checks the two universal invariants from spec.md §8:
//  1. every register produced inside F has a ReverseMap entry pointing
//     at the command that writes it, and every key of ReverseMap names a
//     register actually produced somewhere in F (no orphans, no dupes);
//  2. every block ends with exactly one terminator, both structurally
//     and in its packed buffer.
func (f *Func) Verify() error {
	produced := map[Register]Loc{}
	for bi, b := range f.Blocks {
		if !b.Terminated() {
			return fmt.Errorf("ir: block %d has no terminator", bi)
		}
		for ci, cmd := range b.Instructions[:len(b.Instructions)-1] {
			if cmd.IsTerminator() {
				return fmt.Errorf("ir: block %d: terminator %s at non-final position %d", bi, cmd.Op, ci)
			}
		}
		for ci, cmd := range b.Instructions {
			if !cmd.Op.HasDest() {
				continue
			}
			if _, dup := produced[cmd.Dest]; dup {
				return fmt.Errorf("ir: register %s redefined at block %d cmd %d", cmd.Dest, bi, ci)
			}
			produced[cmd.Dest] = Loc{Block: bi, Cmd: ci}
		}
		decoded := b.Decode()
		if len(decoded) != len(b.Instructions) {
			return fmt.Errorf("ir: block %d: packed buffer decodes to %d instructions, structured form has %d",
				bi, len(decoded), len(b.Instructions))
		}
	}
	if len(produced) != len(f.ReverseMap) {
		return fmt.Errorf("ir: reverse map has %d entries, %d registers actually produced", len(f.ReverseMap), len(produced))
	}
	for r, loc := range produced {
		mapped, ok := f.ReverseMap[r]
		if !ok {
			return fmt.Errorf("ir: register %s produced at %v has no reverse map entry", r, loc)
		}
		if mapped != loc {
			return fmt.Errorf("ir: register %s reverse map entry %v does not match defining location %v", r, mapped, loc)
		}
	}
	return nil
}
