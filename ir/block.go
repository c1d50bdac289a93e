package ir

import (
	"fmt"

	"icarusir/ir/opcode"
)

// BasicBlock is a branch-free instruction sequence ending in exactly one
// terminator. Its structured Instructions and packed Buffer are built in
// lockstep by Append; the interpreter walks Buffer with an opcode.Cursor
// using the exact inverse of the writes Append performs, the symmetry
// spec.md §4.1 calls the "load-bearing contract", while the inliner and
// Func.Dump read Instructions.
type BasicBlock struct {
	Index        int
	Instructions []Cmd
	Buffer       opcode.CmdBuffer
	Incoming     map[int]struct{} // predecessor block indices, filled lazily by successors
}

func NewBasicBlock(index int) *BasicBlock {
	return &BasicBlock{Index: index, Incoming: map[int]struct{}{}}
}

// Terminated reports whether the block already ends with a terminator,
// used by the builder to enforce "exactly one terminator per block".
func (b *BasicBlock) Terminated() bool {
	n := len(b.Instructions)
	return n > 0 && b.Instructions[n-1].IsTerminator()
}

// Append records cmd in both the structured and packed forms. Builder
// callers are responsible for invariant enforcement (single terminator,
// register reservation order); Append itself only encodes.
func (b *BasicBlock) Append(cmd Cmd) {
	b.Instructions = append(b.Instructions, cmd)
	encode(&b.Buffer, cmd)
}

// AddIncoming marks from as a predecessor of this block, called by the
// builder whenever it emits a jump targeting this block.
func (b *BasicBlock) AddIncoming(from int) {
	b.Incoming[from] = struct{}{}
}

func writeOperand(buf *opcode.CmdBuffer, o Operand) {
	if o.IsReg {
		buf.AppendU8(1)
		buf.AppendU64(uint64(o.Reg))
	} else {
		buf.AppendU8(0)
		buf.AppendU64(o.Bits)
	}
}

func readOperand(c *opcode.Cursor) Operand {
	isReg := c.ReadU8() != 0
	bits := c.ReadU64()
	if isReg {
		return Operand{IsReg: true, Reg: Register(bits)}
	}
	return Operand{Bits: bits}
}

// encode appends cmd's packed form to buf. Every branch here has an exact
// counterpart in DecodeNext; adding an operand to one without the other
// breaks the round-trip property (spec.md §8 Universal Invariant 3).
func encode(buf *opcode.CmdBuffer, cmd Cmd) {
	buf.AppendOp(cmd.Op)
	buf.AppendControlBits(opcode.MakeControlBits(cmd.X.IsReg, cmd.Y.IsReg, cmd.Kind))
	if cmd.Op.HasDest() {
		buf.AppendU64(uint64(cmd.Dest))
	}

	switch cmd.Op {
	case opcode.Add, opcode.Sub, opcode.Mul, opcode.Div, opcode.Mod,
		opcode.Eq, opcode.Ne, opcode.Lt, opcode.Le, opcode.Gt, opcode.Ge,
		opcode.Xor, opcode.And, opcode.Or:
		writeOperand(buf, cmd.X)
		writeOperand(buf, cmd.Y)

	case opcode.Not, opcode.Cast, opcode.Trunc, opcode.Extend, opcode.Print:
		writeOperand(buf, cmd.X)

	case opcode.Alloca:
		// type carried structurally only; packed form just reserves dest.

	case opcode.Load, opcode.VariantType, opcode.VariantValue, opcode.ArrayLength, opcode.ArrayData:
		writeOperand(buf, cmd.X)

	case opcode.Store:
		writeOperand(buf, cmd.X)
		writeOperand(buf, cmd.Y)

	case opcode.PtrIncr:
		writeOperand(buf, cmd.X)
		writeOperand(buf, cmd.Y)

	case opcode.Field:
		writeOperand(buf, cmd.X)
		buf.AppendU32(cmd.FieldIndex)

	case opcode.UncondJump:
		buf.AppendU32(uint32(cmd.TrueTarget))

	case opcode.CondJump:
		writeOperand(buf, cmd.X)
		buf.AppendU32(uint32(cmd.TrueTarget))
		buf.AppendU32(uint32(cmd.FalseTarget))

	case opcode.ReturnJump:
		// no operands

	case opcode.Phi:
		buf.AppendU32(uint32(len(cmd.PhiTable)))
		for blk, val := range cmd.PhiTable {
			buf.AppendU32(uint32(blk))
			writeOperand(buf, val)
		}

	case opcode.Call:
		writeOperand(buf, cmd.CallTarget)
		buf.AppendU32(uint32(len(cmd.CallArgs)))
		for _, a := range cmd.CallArgs {
			writeOperand(buf, a)
		}
		buf.AppendU32(uint32(len(cmd.CallOutParams)))
		for i, r := range cmd.CallOutParams {
			buf.AppendU64(uint64(r))
			if cmd.CallOutIsLoc[i] {
				buf.AppendU8(1)
				buf.AppendU8(uint8(cmd.CallOutAddrs[i].Kind))
				buf.AppendU64(cmd.CallOutAddrs[i].Offset)
			} else {
				buf.AppendU8(0)
				buf.AppendU8(0)
				buf.AppendU64(0)
			}
		}

	case opcode.SetReturn:
		buf.AppendU32(uint32(cmd.RetIndex))
		writeOperand(buf, cmd.RetValue)
		if cmd.OnlyGet {
			buf.AppendU8(1)
			buf.AppendU64(uint64(cmd.RetDest))
		} else {
			buf.AppendU8(0)
			buf.AppendU8(uint8(cmd.RetAddr.Kind))
			buf.AppendU64(cmd.RetAddr.Offset)
		}

	case opcode.MakePtr, opcode.MakeBufPtr, opcode.MakeArrow, opcode.MakeArray,
		opcode.MakeTup, opcode.MakeVar, opcode.MakeStruct, opcode.MakeEnum,
		opcode.MakeFlags, opcode.MakeBlockSeq, opcode.Bytes, opcode.Align, opcode.DebugIr:
		writeOperand(buf, cmd.X)
		writeOperand(buf, cmd.Y)

	default:
		panic(fmt.Sprintf("ir: encode: unhandled opcode %s", cmd.Op))
	}
}

// DecodeNext reads one packed instruction starting at cursor and returns
// its structured Cmd, the exact inverse of encode.
func DecodeNext(c *opcode.Cursor) Cmd {
	op := c.ReadOp()
	bits := c.ReadControlBits()
	cmd := Cmd{Op: op, Kind: bits.Kind()}
	if op.HasDest() {
		cmd.Dest = Register(c.ReadU64())
	}

	switch op {
	case opcode.Add, opcode.Sub, opcode.Mul, opcode.Div, opcode.Mod,
		opcode.Eq, opcode.Ne, opcode.Lt, opcode.Le, opcode.Gt, opcode.Ge,
		opcode.Xor, opcode.And, opcode.Or:
		cmd.X = readOperand(c)
		cmd.Y = readOperand(c)

	case opcode.Not, opcode.Cast, opcode.Trunc, opcode.Extend, opcode.Print:
		cmd.X = readOperand(c)

	case opcode.Alloca:

	case opcode.Load, opcode.VariantType, opcode.VariantValue, opcode.ArrayLength, opcode.ArrayData:
		cmd.X = readOperand(c)

	case opcode.Store:
		cmd.X = readOperand(c)
		cmd.Y = readOperand(c)

	case opcode.PtrIncr:
		cmd.X = readOperand(c)
		cmd.Y = readOperand(c)

	case opcode.Field:
		cmd.X = readOperand(c)
		cmd.FieldIndex = c.ReadU32()

	case opcode.UncondJump:
		cmd.TrueTarget = int(c.ReadU32())

	case opcode.CondJump:
		cmd.X = readOperand(c)
		cmd.TrueTarget = int(c.ReadU32())
		cmd.FalseTarget = int(c.ReadU32())

	case opcode.ReturnJump:

	case opcode.Phi:
		n := int(c.ReadU32())
		cmd.PhiTable = make(map[int]Operand, n)
		for i := 0; i < n; i++ {
			blk := int(c.ReadU32())
			cmd.PhiTable[blk] = readOperand(c)
		}

	case opcode.Call:
		cmd.CallTarget = readOperand(c)
		nargs := int(c.ReadU32())
		cmd.CallArgs = make([]Operand, nargs)
		for i := range cmd.CallArgs {
			cmd.CallArgs[i] = readOperand(c)
		}
		nout := int(c.ReadU32())
		cmd.CallOutParams = make([]Register, nout)
		cmd.CallOutIsLoc = make([]bool, nout)
		cmd.CallOutAddrs = make([]Addr, nout)
		for i := 0; i < nout; i++ {
			cmd.CallOutParams[i] = Register(c.ReadU64())
			if c.ReadU8() != 0 {
				cmd.CallOutIsLoc[i] = true
				kind := AddrKind(c.ReadU8())
				offset := c.ReadU64()
				cmd.CallOutAddrs[i] = Addr{Kind: kind, Offset: offset}
			} else {
				c.ReadU8()
				c.ReadU64()
			}
		}

	case opcode.SetReturn:
		cmd.RetIndex = int(c.ReadU32())
		cmd.RetValue = readOperand(c)
		if c.ReadU8() != 0 {
			cmd.OnlyGet = true
			cmd.RetDest = Register(c.ReadU64())
		} else {
			kind := AddrKind(c.ReadU8())
			offset := c.ReadU64()
			cmd.RetAddr = Addr{Kind: kind, Offset: offset}
		}

	case opcode.MakePtr, opcode.MakeBufPtr, opcode.MakeArrow, opcode.MakeArray,
		opcode.MakeTup, opcode.MakeVar, opcode.MakeStruct, opcode.MakeEnum,
		opcode.MakeFlags, opcode.MakeBlockSeq, opcode.Bytes, opcode.Align, opcode.DebugIr:
		cmd.X = readOperand(c)
		cmd.Y = readOperand(c)

	default:
		panic(fmt.Sprintf("ir: DecodeNext: unhandled opcode %s", op))
	}
	return cmd
}

// EncodeBuffer rebuilds a packed CmdBuffer from scratch given a
// structured instruction slice. Used by callers (the builder's MakePhi)
// that mutate an already-appended instruction in place and must
// re-derive the packed form rather than patch it incrementally.
func EncodeBuffer(instrs []Cmd) opcode.CmdBuffer {
	var buf opcode.CmdBuffer
	for _, cmd := range instrs {
		encode(&buf, cmd)
	}
	return buf
}

// Decode re-parses the packed Buffer back into structured Cmd values,
// independent of Instructions. Used by round-trip tests (spec.md §8
// Universal Invariant 3) and by Func.Verify, which checks that the packed
// form decodes to as many instructions as the structured form holds.
func (b *BasicBlock) Decode() []Cmd {
	cur := opcode.NewCursor(b.Buffer.Bytes())
	var out []Cmd
	for !cur.Done() {
		out = append(out, DecodeNext(cur))
	}
	return out
}
