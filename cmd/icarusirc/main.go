// Command icarusirc is a small CLI front end over the icarusir core,
// standing in for the elaborator the real compiler would drive this
// package with. It exists for demonstration and manual testing: "run" a
// hand-assembled textual IR fixture, "eval" a literal arithmetic
// expression through the CTE driver, and "dump" a Func's structured form.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
