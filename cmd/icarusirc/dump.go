package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"icarusir/types"
)

func newDumpCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file.irtext>",
		Short: "Assemble a .irtext fixture and print its structured blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := assemble(string(src), types.InterprettingMachine())
			if err != nil {
				return err
			}
			fmt.Println(f.Dump())
			return nil
		},
	}
	return cmd
}
