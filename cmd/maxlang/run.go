package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxlang/maxlang"
	"github.com/maxlang/maxlang/object"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Run a maxlang source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, args[0])
		},
	}
}

func runFile(cmd *cobra.Command, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return evalSource(cmd, string(source), path)
}

// evalSource runs source and prints its final value, unless the value is
// nil (programs that only print have a nil result).
func evalSource(cmd *cobra.Command, source, filename string) error {
	opts := []maxlang.Option{
		maxlang.WithFilename(filename),
		maxlang.WithOutput(cmd.OutOrStdout()),
	}
	if observer := traceObserver(cmd); observer != nil {
		opts = append(opts, maxlang.WithObserver(observer))
	}
	result, err := maxlang.Eval(cmd.Context(), source, opts...)
	if err != nil {
		return err
	}
	if _, isNil := result.(*object.NilType); !isNil {
		fmt.Fprintln(cmd.OutOrStdout(), result.Inspect())
	}
	return nil
}
