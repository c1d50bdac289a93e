// Package opcode defines the Icarus IR's opcode family and the packed,
// linear encoding used to execute a BasicBlock directly instead of
// interpreting a tree of structured Cmd values. It is the Go analogue of
// the teacher's vm/bytecode.go Bytecode enum and packed Instruction
// format, generalized from a fixed three-field instruction to a
// variable-length buffer because the IR's operand shapes vary per op.
package opcode

import "icarusir/types"

// Op is the opcode's numeric index, written as a uint16 at the head of
// every packed command, exactly as the teacher's Instruction.code field
// heads every packed VM instruction.
type Op uint16

const (
	Invalid Op = iota

	// Arithmetic. Polymorphic over types.Kind via ControlBits, per the
	// "single opcode tagged by primitive kind" design note (spec.md §9)
	// rather than one opcode per numeric type.
	Add
	Sub
	Mul
	Div
	Mod

	// Comparison.
	Eq
	Ne
	Lt
	Le
	Gt
	Ge

	// Logical / bitwise.
	Not
	Xor
	And
	Or

	// Memory.
	Alloca
	Load
	Store
	PtrIncr
	Field
	VariantType
	VariantValue
	ArrayLength
	ArrayData

	// Type constructors. The core stores and moves these as opaque
	// *types.Type immediates; it does not evaluate type algebra.
	MakePtr
	MakeBufPtr
	MakeArrow
	MakeArray
	MakeTup
	MakeVar
	MakeStruct
	MakeEnum
	MakeFlags
	MakeBlockSeq

	// Control.
	UncondJump
	CondJump
	ReturnJump
	Phi
	Call
	SetReturn

	// I/O and misc.
	Print
	Bytes
	Align
	Cast
	Trunc
	Extend
	DebugIr
)

var names = map[Op]string{
	Invalid: "invalid", Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod",
	Eq: "eq", Ne: "ne", Lt: "lt", Le: "le", Gt: "gt", Ge: "ge",
	Not: "not", Xor: "xor", And: "and", Or: "or",
	Alloca: "alloca", Load: "load", Store: "store", PtrIncr: "ptr_incr",
	Field: "field", VariantType: "variant_type", VariantValue: "variant_value",
	ArrayLength: "array_length", ArrayData: "array_data",
	MakePtr: "make_ptr", MakeBufPtr: "make_buf_ptr", MakeArrow: "make_arrow",
	MakeArray: "make_array", MakeTup: "make_tup", MakeVar: "make_var",
	MakeStruct: "make_struct", MakeEnum: "make_enum", MakeFlags: "make_flags",
	MakeBlockSeq: "make_block_seq",
	UncondJump:   "uncond_jump", CondJump: "cond_jump", ReturnJump: "return_jump",
	Phi: "phi", Call: "call", SetReturn: "set_return",
	Print: "print", Bytes: "bytes", Align: "align", Cast: "cast",
	Trunc: "trunc", Extend: "extend", DebugIr: "debug_ir",
}

func (o Op) String() string {
	if n, ok := names[o]; ok {
		return n
	}
	return "unknown_op"
}

// IsTerminator reports whether Op ends a BasicBlock. Mirrors the teacher's
// classification predicates (IsRegisterOp, NumRequiredOpArgs) in spirit:
// a small table-driven predicate rather than scattered switch arms.
func (o Op) IsTerminator() bool {
	switch o {
	case UncondJump, CondJump, ReturnJump:
		return true
	default:
		return false
	}
}

// HasDest reports whether Op produces a value written to a single Dest
// register. Terminators, Store, Print, DebugIr, and SetReturn write
// nowhere or write to RetDest instead; Call writes to CallOutParams, a
// whole slice of destinations rather than one, so it is excluded too.
func (o Op) HasDest() bool {
	switch o {
	case UncondJump, CondJump, ReturnJump, Store, Print, SetReturn, DebugIr, Call:
		return false
	default:
		return true
	}
}

// ControlBits is the one-byte tag following a polymorphic opcode's index,
// recording which of up to two source operands are register references
// versus immediates, and the primitive types.Kind the op operates over.
// Generalizes uint32FromBytes/uint32ToBytes-style fixed helpers in the
// teacher into a single packed flag byte, per spec.md §4.1.
type ControlBits byte

const (
	flagXReg = 1 << 0
	flagYReg = 1 << 1
	kindBits = 2 // low 2 bits are flags, rest of the byte encodes Kind
)

func MakeControlBits(xIsReg, yIsReg bool, kind types.Kind) ControlBits {
	var b ControlBits
	if xIsReg {
		b |= flagXReg
	}
	if yIsReg {
		b |= flagYReg
	}
	b |= ControlBits(uint8(kind) << kindBits)
	return b
}

func (b ControlBits) XIsReg() bool   { return b&flagXReg != 0 }
func (b ControlBits) YIsReg() bool   { return b&flagYReg != 0 }
func (b ControlBits) Kind() types.Kind { return types.Kind(byte(b) >> kindBits) }
