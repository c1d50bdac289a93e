package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "icarusirc",
		Short: "Inspect and interpret icarusir intermediate representation",
	}
	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newEvalCmd(logger))
	root.AddCommand(newDumpCmd(logger))
	return root
}
