// Package inline splices a callee function's blocks into a caller,
// rewriting register and block identities so the caller remains a single
// well-formed Func afterward. It implements the five-step algorithm in
// spec.md §4.3 exactly: used both for inlining "scope" bodies and for
// compile-time evaluation of generic instantiations.
package inline

import (
	"fmt"

	"icarusir/builder"
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// BlockLiteral is a handle the callee uses to mark an exit block whose
// control should transfer to a specific caller block (used by scope
// inlining, where a scope body "exits" to different caller blocks
// depending on which named exit it took).
type BlockLiteral int

// Inline splices callee into caller.Func at caller's current block,
// following spec.md §4.3's five steps. blockMap is accepted but not
// consulted: every callee ReturnJump becomes a jump to one landing block,
// which is the caller's current block when Inline returns, and distinct
// landing blocks per exit are not supported. Callee Param registers are
// not rebound; rewriteReg leaves them unchanged.
func Inline(caller *builder.Context, callee *ir.Func, blockMap map[BlockLiteral]int) error {
	if err := callee.Verify(); err != nil {
		return fmt.Errorf("inline: callee is not well-formed: %w", err)
	}

	// Step 1: snapshot bases, add a landing block.
	regBase := caller.Func.NextOrdinary()
	blockBase := len(caller.Func.Blocks)
	landing := caller.AddBlock()
	// Reserve a caller slot for every callee ordinary register, in order,
	// so that callee register i lands on caller register regBase+i.
	for i := int64(0); i < callee.NextOrdinary(); i++ {
		caller.Func.Reserve(callee.TypeOf(ir.Ordinary(i)))
	}

	// Step 4 (performed before step 2 so the register rewriter below has
	// the alloca remap table available): merge callee's allocation table
	// into caller's. Each slot is reserved as a pointer to its pointee
	// type (matching the builder's own Alloca contract) and given a real
	// Alloca instruction in the caller's entry block, since the
	// splice loop below never copies the callee's own entry block, where
	// that instruction used to live.
	allocaMap := map[ir.Register]ir.Register{}
	entry := caller.Func.Block(0)
	for _, slot := range callee.Allocas {
		newReg := caller.Func.Reserve(types.NewPointer(slot.Type))
		caller.Func.RecordAlloca(newReg, slot.Type)
		entry.Append(ir.Cmd{Op: opcode.Alloca, Dest: newReg, Type: slot.Type})
		caller.Func.RecordDef(newReg, 0, len(entry.Instructions)-1)
		allocaMap[slot.Reg] = newReg
	}

	rewriteReg := func(r ir.Register) ir.Register {
		if r.IsOrdinary() {
			if mapped, ok := allocaMap[r]; ok {
				return mapped
			}
			return ir.Ordinary(r.Index() + regBase)
		}
		return r
	}
	rewriteBlock := func(b int) int { return b + blockBase }

	rewriteOperand := func(o ir.Operand) ir.Operand {
		if o.IsReg {
			return ir.OperandReg(rewriteReg(o.Reg))
		}
		return o
	}

	// Step 2: for each non-entry block in callee, append a fresh block to
	// caller, copy instructions with every embedded register/block
	// reference rebased.
	translatedFirst := -1
	for i, b := range callee.Blocks {
		if i == 0 {
			continue // entry block's only job was alloca grouping; skip it
		}
		newIdx := caller.AddBlock()
		if translatedFirst == -1 {
			translatedFirst = newIdx
		}
		newBlock := caller.Func.Block(newIdx)
		for _, cmd := range b.Instructions {
			translated := rewriteCmd(cmd, rewriteReg, rewriteBlock, rewriteOperand, landing)
			newBlock.Append(translated)
			if translated.Op.HasDest() {
				caller.Func.RecordDef(translated.Dest, newIdx, len(newBlock.Instructions)-1)
			}
		}
	}
	if translatedFirst == -1 {
		// Callee had only an entry block (e.g. a nullary CTE wrapper whose
		// body lives entirely in its "start" block per spec.md §4.5 — in
		// practice this path is unreachable because CTE always adds a
		// start block, but guard anyway).
		translatedFirst = landing
	}

	// blockMap is not consulted: every ReturnJump already became a jump to
	// landing in rewriteCmd, whatever blockMap holds.
	_ = blockMap

	// Step 3: in the caller's pre-call block, jump to the translated
	// entry of callee; move the cursor to landing.
	caller.AppendUncondJump(translatedFirst)
	caller.SetCurrent(landing)

	return nil
}

// rewriteCmd translates one callee instruction into its caller-rebased
// form. ReturnJump becomes an unconditional jump to landing; SetReturn is
// rewritten into a direct write to the caller's destination for that
// output, per spec.md §4.3 step 5.
func rewriteCmd(cmd ir.Cmd, rewriteReg func(ir.Register) ir.Register, rewriteBlock func(int) int,
	rewriteOperand func(ir.Operand) ir.Operand, landing int) ir.Cmd {

	out := cmd
	if cmd.Op.HasDest() {
		out.Dest = rewriteReg(cmd.Dest)
	}
	out.X = rewriteOperand(cmd.X)
	out.Y = rewriteOperand(cmd.Y)

	switch cmd.Op {
	case opcode.ReturnJump:
		out.Op = opcode.UncondJump
		out.TrueTarget = landing

	case opcode.UncondJump:
		out.TrueTarget = rewriteBlock(cmd.TrueTarget)

	case opcode.CondJump:
		out.TrueTarget = rewriteBlock(cmd.TrueTarget)
		out.FalseTarget = rewriteBlock(cmd.FalseTarget)

	case opcode.Phi:
		table := make(map[int]ir.Operand, len(cmd.PhiTable))
		for blk, val := range cmd.PhiTable {
			table[rewriteBlock(blk)] = rewriteOperand(val)
		}
		out.PhiTable = table

	case opcode.SetReturn:
		// Translate into a direct register bind targeting the caller's
		// Out(i) register for this output, so the inlined SetReturn writes
		// the caller's own output i. The pointer-write form (RetAddr with
		// OnlyGet false) is not produced here.
		out.RetValue = rewriteOperand(cmd.RetValue)
		out.OnlyGet = true
		out.RetDest = ir.Out(int64(cmd.RetIndex))

	case opcode.Call:
		args := make([]ir.Operand, len(cmd.CallArgs))
		for i, a := range cmd.CallArgs {
			args[i] = rewriteOperand(a)
		}
		outRegs := make([]ir.Register, len(cmd.CallOutParams))
		for i, r := range cmd.CallOutParams {
			outRegs[i] = rewriteReg(r)
		}
		out.CallArgs = args
		out.CallOutParams = outRegs
		out.CallTarget = rewriteOperand(cmd.CallTarget)

	case opcode.Field:
		// FieldIndex is not a register/block identity; nothing to rewrite.

	case opcode.Alloca:
		// Allocas were already retargeted via the allocaMap applied
		// through rewriteReg on out.Dest above.
	}

	return out
}
