package main

import (
	"fmt"
	"strconv"
	"strings"

	"icarusir/ast"
	"icarusir/builder"
	"icarusir/ir"
	"icarusir/ir/opcode"
	"icarusir/types"
)

// literalArith is a tiny demo ast.Expression over +,-,*,/ and int64
// literals, standing in for the real elaborator's expression nodes
// (spec.md §1 explicitly puts parsing out of scope for the core; this
// lives in the CLI only to exercise cte.Evaluate end to end).
type literalArith struct {
	tokens []string
	pos    int
}

func parseLiteralArith(src string) *literalArith {
	fields := strings.Fields(strings.NewReplacer("+", " + ", "-", " - ", "*", " * ", "/", " / ").Replace(src))
	return &literalArith{tokens: fields}
}

func (e *literalArith) TypeIn(ctx *builder.Context) (*types.Type, error) {
	return &types.Type{Kind: types.I64}, nil
}

func (e *literalArith) EmitIR(ctx *builder.Context) ([]ast.Value, error) {
	v, err := e.parseExpr(ctx, 0)
	if err != nil {
		return nil, err
	}
	return []ast.Value{v}, nil
}

var precedence = map[string]int{"+": 1, "-": 1, "*": 2, "/": 2}

func (e *literalArith) parseExpr(ctx *builder.Context, minPrec int) (ir.RegOr[int64], error) {
	lhs, err := e.parsePrimary()
	if err != nil {
		return ir.RegOr[int64]{}, err
	}
	for e.pos < len(e.tokens) {
		op := e.tokens[e.pos]
		prec, ok := precedence[op]
		if !ok || prec < minPrec {
			break
		}
		e.pos++
		rhs, err := e.parseExpr(ctx, prec+1)
		if err != nil {
			return ir.RegOr[int64]{}, err
		}
		lhs = builder.AppendBinArith(ctx, opcodeFor(op), types.I64, lhs, rhs)
	}
	return lhs, nil
}

func (e *literalArith) parsePrimary() (ir.RegOr[int64], error) {
	if e.pos >= len(e.tokens) {
		return ir.RegOr[int64]{}, fmt.Errorf("unexpected end of expression")
	}
	tok := e.tokens[e.pos]
	e.pos++
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return ir.RegOr[int64]{}, fmt.Errorf("expected integer literal, got %q", tok)
	}
	return ir.RegOrImm(v), nil
}

func opcodeFor(op string) opcode.Op {
	switch op {
	case "+":
		return opcode.Add
	case "-":
		return opcode.Sub
	case "*":
		return opcode.Mul
	case "/":
		return opcode.Div
	default:
		panic("unreachable")
	}
}
