// Package ast defines the minimal read-only surface the core consumes
// from the elaborator, per spec.md §6: an Expression knows how to emit
// its own IR and how to report its own type. Lexing, parsing, name
// resolution, and type-checking are all out of scope (spec.md §1) and
// have no representation here beyond these two call-backs.
package ast

import (
	"icarusir/builder"
	"icarusir/types"
)

// Value is whatever the expression's IR emission produced: typically a
// register or an immediate, represented generically since the core does
// not know the concrete shape an elaborator chooses for its emitted
// values (tuple-returning expressions yield more than one).
type Value any

// Expression is the read-only interface the elaborator implements for
// every expression node the core needs to lower into IR. The core never
// constructs an Expression itself; it only calls into one handed to it
// by the elaborator (e.g. by cte.Evaluate).
type Expression interface {
	// EmitIR emits this expression's IR into ctx's current block and
	// returns its result values. Per spec.md §6, emission must leave the
	// current block with a single terminator when control reaches a
	// statement-level join; expression-only emission (no control flow)
	// leaves the cursor unmoved.
	EmitIR(ctx *builder.Context) ([]Value, error)

	// TypeIn reports this expression's type, used by cte.Evaluate to
	// shape the return-slot layout before emission even runs.
	TypeIn(ctx *builder.Context) (*types.Type, error)
}
