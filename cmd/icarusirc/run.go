package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"icarusir/interp"
	"icarusir/ir"
	"icarusir/types"
)

func newRunCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file.irtext>",
		Short: "Interpret a hand-assembled .irtext fixture and print its single i32 output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			arch := types.InterprettingMachine()
			f, err := assemble(string(src), arch)
			if err != nil {
				return err
			}

			machine := interp.NewMachine()
			out := make([]byte, 4)
			rets := []ir.Addr{ir.NewHeap(out, 0)}
			if err := machine.Run(f, nil, rets); err != nil {
				logger.Error("run failed", zap.Error(err))
				return err
			}
			var v int32
			for i := 0; i < 4; i++ {
				v |= int32(out[i]) << (8 * i)
			}
			fmt.Println(v)
			return nil
		},
	}
	return cmd
}
