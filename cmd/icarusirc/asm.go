package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"icarusir/builder"
	"icarusir/ir"
	"icarusir/types"
)

// assembleLine-based fixture format, grounded on the teacher's
// preprocessLine/parseInputLine pair in vm/compile.go: whitespace-
// separated mnemonic plus operands, one instruction per line, comments
// start with ';'. Only the small subset of opcodes the CLI demos need is
// supported; it is not a general-purpose textual IR.
var commentRE = regexp.MustCompile(`;.*$`)

func assemble(source string, arch types.Arch) (*ir.Func, error) {
	ctx := builder.NewContext("$main", types.Void, []*types.Type{{Kind: types.I32}}, arch)
	ctx.AddBlock()
	ctx.SetCurrent(1)

	regs := map[string]ir.Register{}

	for lineNo, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(commentRE.ReplaceAllString(raw, ""))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if err := assembleLine(ctx, fields, regs); err != nil {
			return nil, fmt.Errorf("asm: line %d: %w", lineNo+1, err)
		}
	}

	ctx.SetCurrent(0)
	ctx.AppendUncondJump(1)
	return ctx.Func, nil
}

func assembleLine(ctx *builder.Context, fields []string, regs map[string]ir.Register) error {
	switch fields[0] {
	case "alloca":
		if len(fields) != 3 {
			return fmt.Errorf("alloca expects 2 operands")
		}
		t, err := parseType(fields[1])
		if err != nil {
			return err
		}
		regs[fields[2]] = ctx.Alloca(t)

	case "store":
		if len(fields) != 4 {
			return fmt.Errorf("store expects 3 operands")
		}
		kind, err := parseKind(fields[1])
		if err != nil {
			return err
		}
		v, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return err
		}
		addr, ok := regs[fields[3]]
		if !ok {
			return fmt.Errorf("unknown register %s", fields[3])
		}
		builder.AppendStore(ctx, kind, addr, ir.RegOrImm(v))

	case "load":
		if len(fields) != 4 {
			return fmt.Errorf("load expects 3 operands")
		}
		kind, err := parseKind(fields[1])
		if err != nil {
			return err
		}
		addr, ok := regs[fields[2]]
		if !ok {
			return fmt.Errorf("unknown register %s", fields[2])
		}
		regs[fields[3]] = builder.AppendLoad(ctx, kind, addr)

	case "setret":
		if len(fields) != 3 {
			return fmt.Errorf("setret expects 2 operands")
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		r, ok := regs[fields[2]]
		if !ok {
			return fmt.Errorf("unknown register %s", fields[2])
		}
		builder.AppendSetReturn(ctx, idx, ir.RegOrReg[int64](r))

	case "ret":
		ctx.AppendReturnJump()

	default:
		return fmt.Errorf("unknown mnemonic %q", fields[0])
	}
	return nil
}

func parseType(name string) (*types.Type, error) {
	k, err := parseKind(name)
	if err != nil {
		return nil, err
	}
	return &types.Type{Kind: k}, nil
}

func parseKind(name string) (types.Kind, error) {
	switch name {
	case "i8":
		return types.I8, nil
	case "i16":
		return types.I16, nil
	case "i32":
		return types.I32, nil
	case "i64":
		return types.I64, nil
	case "bool":
		return types.Bool, nil
	default:
		return types.Invalid, fmt.Errorf("unknown type %q", name)
	}
}
