package ir

import (
	"icarusir/ir/opcode"
	"icarusir/types"
)

// Cmd is the structured form of one instruction: a tagged record carrying
// an opcode and opcode-specific operands, at most one destination
// register. It exists alongside each block's packed opcode.CmdBuffer
// encoding of the same instruction (spec.md §4.1's "two simultaneous
// forms"); Cmd is what the builder, inliner, and dumper inspect, while
// the packed buffer is what the interpreter executes.
//
// Not every field is meaningful for every Op; which fields apply is
// determined by Op alone, the same discipline the teacher's Instruction
// struct uses (code/register/arg always present, interpreted per
// Bytecode).
type Cmd struct {
	Op   opcode.Op
	Dest Register // valid iff Op.HasDest()
	Kind types.Kind

	X, Y Operand // generic binary operands: arithmetic/compare lhs,rhs; Load/Store addr,value; PtrIncr ptr,count

	Type *types.Type // Alloca's allocated type; PtrIncr/Field's pointee type; Cast's target type

	FieldIndex uint32 // Field

	// Control flow.
	TrueTarget, FalseTarget int // CondJump; UncondJump uses TrueTarget only

	// Phi: table keyed by predecessor block index, each append-only and
	// pointer-stable per spec.md §3's Basic Block side-table contract.
	PhiTable map[int]Operand

	// Call.
	CallTarget    Operand
	CallArgs      []Operand
	CallOutParams []Register
	CallOutIsLoc  []bool // per out-param: true = write through pointer, false = bind register directly
	CallOutAddrs  []Addr // valid where CallOutIsLoc[i] is true

	// SetReturn: write Value into output RetIndex, either directly into a
	// caller register (OnlyGet) or through a caller-supplied pointer,
	// mirroring the Inliner's return-translation step (spec.md §4.3 step 5).
	RetIndex  int
	RetValue  Operand
	OnlyGet   bool
	RetDest   Register
	RetAddr   Addr

	// Span references the originating AST node for runtime diagnostics,
	// threaded through from emission per spec.md §7.
	Span string
}

// IsTerminator reports whether Cmd ends its owning BasicBlock.
func (c Cmd) IsTerminator() bool { return c.Op.IsTerminator() }

// NewAlloca is a convenience constructor that builds a structured Alloca
// Cmd without poking at every field.
func NewAlloca(dest Register, t *types.Type) Cmd {
	return Cmd{Op: opcode.Alloca, Dest: dest, Type: t}
}
