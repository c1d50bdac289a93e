package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"icarusir/cte"
	"icarusir/diag"
	"icarusir/interp"
	"icarusir/types"
)

func newEvalCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expr>",
		Short: "Evaluate a literal integer arithmetic expression through the compile-time interpreter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := parseLiteralArith(strings.Join(args, " "))

			arch := types.InterprettingMachine()
			diagCtx := diag.NewContext(logger)
			ctx := cte.NewContext(interp.NewMachine(), diagCtx, arch)

			values, err := cte.Evaluate(ctx, expr)
			if err != nil {
				return err
			}
			if diagCtx.HasErrors() {
				for _, d := range diagCtx.Diagnostics() {
					fmt.Println(d.String())
				}
				return fmt.Errorf("evaluation failed with %d diagnostic(s)", len(diagCtx.Diagnostics()))
			}
			for _, v := range values {
				fmt.Println(v.AsInt64())
			}
			return nil
		},
	}
	return cmd
}
