package builder

import (
	"icarusir/ir"
	"icarusir/ir/opcode"
)

// OutParam describes one out-parameter of a Call: either bind the
// callee's output directly into a caller register, or write it through a
// caller-supplied address, mirroring the is_loc flag in spec.md §4.4's
// Calls paragraph.
type OutParam struct {
	Reg    ir.Register
	IsLoc  bool
	Target ir.Addr
}

// Call appends a Call instruction. target is the function value being
// invoked (a register holding a function reference, or — per the Open
// Question decision recorded in DESIGN.md — a direct function-pointer
// immediate; foreign functions are not modeled). args is the full
// argument pack in parameter order; every out-param register must
// already have been reserved by the caller before this call, per
// spec.md §4.2.
func (c *Context) Call(target ir.Operand, args []ir.Operand, outs []OutParam) {
	outRegs := make([]ir.Register, len(outs))
	isLoc := make([]bool, len(outs))
	addrs := make([]ir.Addr, len(outs))
	for i, o := range outs {
		outRegs[i] = o.Reg
		isLoc[i] = o.IsLoc
		addrs[i] = o.Target
	}
	c.append(ir.Cmd{
		Op:            opcode.Call,
		CallTarget:    target,
		CallArgs:      args,
		CallOutParams: outRegs,
		CallOutIsLoc:  isLoc,
		CallOutAddrs:  addrs,
	})
}
