// Package interp is the direct-threaded interpreter over a Func's packed
// CmdBuffer form. It mirrors the teacher's vm/exec.go and vm/run.go
// dispatch loop (switch-based opcode execution, recover-based fault
// handling) generalized from a flat register file to per-frame register
// files addressed through a process-wide stack, per spec.md §4.4.
package interp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel runtime errors, one per row of spec.md §4.4's failure-mode
// table. CTE checks for these with errors.Is and aborts only the current
// evaluation; IR-construction invariant violations (out-of-range jump,
// unmatched phi) are host panics instead, since spec.md §7 classifies
// them as programmer errors in the core rather than user-surfaced
// diagnostics.
var (
	ErrNullDeref         = errors.New("compile-time nullptr dereference")
	ErrDivByZero         = errors.New("division by zero")
	ErrUnresolvedCall    = errors.New("unresolved function called at compile time")
	ErrFailedPrecondition = errors.New("failed precondition")
)

// invariantViolation panics with an internal-invariant diagnostic,
// reserved for conditions the builder must have prevented: out-of-range
// block index after inlining, phi with no matching incoming block. These
// abort the whole process rather than just the current CTE, per spec.md
// §7's IR-construction-invariant category. The panic value is a string,
// not an error, so Machine.Run's recover re-panics it instead of
// returning it.
func invariantViolation(format string, args ...any) {
	panic(fmt.Sprintf("interp: internal invariant violation: "+format, args...))
}
