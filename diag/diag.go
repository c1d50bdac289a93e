// Package diag accumulates diagnostics raised during compile-time
// evaluation, the propagation surface spec.md §7 describes: interpreter
// runtime errors surface as a diagnostic referencing the originating
// source span and abort only the current CTE invocation, never the whole
// compilation.
package diag

import (
	"fmt"

	"go.uber.org/zap"
)

// Kind classifies a Diagnostic per the taxonomy in spec.md §7.
type Kind int

const (
	Elaboration Kind = iota
	NullDereference
	DivisionByZero
	FailedPrecondition
	UnresolvedCall
	ResourceExhaustion
)

func (k Kind) String() string {
	switch k {
	case Elaboration:
		return "elaboration_error"
	case NullDereference:
		return "compile-time null dereference"
	case DivisionByZero:
		return "division by zero"
	case FailedPrecondition:
		return "failed precondition"
	case UnresolvedCall:
		return "unresolved function called at compile time"
	case ResourceExhaustion:
		return "resource exhaustion"
	default:
		return "unknown"
	}
}

// Diagnostic is one recorded failure, carrying the AST span it
// originated from (threaded through from emission, per spec.md §7) so
// downstream reporting can point at source.
type Diagnostic struct {
	Kind    Kind
	Span    string
	Message string
}

func (d Diagnostic) String() string {
	if d.Span == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s at %s: %s", d.Kind, d.Span, d.Message)
}

// Context accumulates Diagnostics for one compilation unit. cte.Evaluate
// checks HasErrors before running the interpreter and short-circuits if
// the context already carries elaboration errors (spec.md §4.5 step 1).
type Context struct {
	diagnostics []Diagnostic
	logger      *zap.Logger
}

func NewContext(logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{logger: logger}
}

// Report appends d and logs it at warn level, grounded on the teacher's
// habit of surfacing runtime faults immediately rather than batching.
func (c *Context) Report(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	c.logger.Warn("diagnostic reported",
		zap.String("kind", d.Kind.String()),
		zap.String("span", d.Span),
		zap.String("message", d.Message),
	)
}

func (c *Context) HasErrors() bool { return len(c.diagnostics) > 0 }

func (c *Context) Diagnostics() []Diagnostic { return c.diagnostics }
