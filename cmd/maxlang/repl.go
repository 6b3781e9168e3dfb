package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maxlang/maxlang"
	"github.com/maxlang/maxlang/object"
)

// repl evaluates one expression per line. Every line is a complete program;
// the language has no top-level mutable environment to carry between lines.
func repl(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
	prompt := color.New(color.FgCyan).Sprint(">>> ")
	errColor := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(out, "maxlang %s (type exit to quit)\n", version)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		opts := []maxlang.Option{
			maxlang.WithFilename("<repl>"),
			maxlang.WithOutput(out),
		}
		if observer := traceObserver(cmd); observer != nil {
			opts = append(opts, maxlang.WithObserver(observer))
		}
		result, err := maxlang.Eval(cmd.Context(), line, opts...)
		if err != nil {
			fmt.Fprintln(out, errColor(err.Error()))
			continue
		}
		if _, isNil := result.(*object.NilType); !isNil {
			fmt.Fprintln(out, result.Inspect())
		}
	}
}
