package interp

import (
	"context"

	"golang.org/x/sync/errgroup"

	"icarusir/ir"
)

// CheckPreconditions runs every precondition attached to f (spec.md
// §4.6's optional validate_calls step) against the same argument buffer
// f itself would receive, returning the first failure. Each precondition
// is a nullary-over-args sub-function returning bool with no side
// effects, so unlike ordinary Run calls (which share one process-wide
// Stack and must not run concurrently per spec.md §5) each check gets
// its own Machine and Stack: independent checks, independent stacks,
// safe to fan out. golang.org/x/sync/errgroup collects the first failure
// and cancels the rest.
func CheckPreconditions(ctx context.Context, f *ir.Func, args []byte) error {
	if len(f.Preconditions) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, pred := range f.Preconditions {
		pred := pred
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			machine := NewMachine()
			resultBuf := make([]byte, 1)
			rets := []ir.Addr{ir.NewHeap(resultBuf, 0)}
			if err := machine.Run(pred, args, rets); err != nil {
				return err
			}
			if resultBuf[0] == 0 {
				return ErrFailedPrecondition
			}
			return nil
		})
	}
	return g.Wait()
}
