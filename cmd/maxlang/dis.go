package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/maxlang/maxlang"
	"github.com/maxlang/maxlang/dis"
)

func newDisCommand() *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "dis [FILE]",
		Short: "Disassemble compiled maxlang code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := code
			filename := "<eval>"
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				source = string(data)
				filename = args[0]
			}
			fn, err := maxlang.Compile(cmd.Context(), source,
				maxlang.WithFilename(filename))
			if err != nil {
				return err
			}
			dis.Print(dis.Disassemble(fn), cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "code to disassemble")
	return cmd
}
