package main

import (
	"github.com/spf13/cobra"
)

func newEvalCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "eval EXPR",
		Aliases: []string{"e"},
		Short:   "Evaluate a maxlang expression",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evalSource(cmd, args[0], "<eval>")
		},
	}
}
