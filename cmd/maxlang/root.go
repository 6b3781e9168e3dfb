package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maxlang/maxlang/vm"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "maxlang [file]",
		Short:         "Run maxlang programs",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runFile(cmd, args[0])
			}
			if isatty.IsTerminal(os.Stdin.Fd()) {
				return repl(cmd)
			}
			source, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return evalSource(cmd, string(source), "<stdin>")
		},
	}

	flags := root.PersistentFlags()
	flags.Bool("trace", false, "log every executed instruction")
	flags.Bool("no-color", false, "disable colored output")

	viper.SetEnvPrefix("MAXLANG")
	viper.AutomaticEnv()
	viper.BindPFlag("trace", flags.Lookup("trace"))
	viper.BindPFlag("no-color", flags.Lookup("no-color"))

	root.AddCommand(newRunCommand())
	root.AddCommand(newEvalCommand())
	root.AddCommand(newDisCommand())
	return root
}

// traceObserver returns an observer that logs every instruction through
// zerolog, or nil when tracing is off.
func traceObserver(cmd *cobra.Command) vm.Observer {
	if !viper.GetBool("trace") {
		return nil
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		With().Timestamp().Logger()
	return vm.ObserverFunc(func(e vm.StepEvent) {
		logger.Trace().
			Int("ip", e.IP).
			Int("depth", e.FrameDepth).
			Str("op", e.Instruction.String()).
			Msg("step")
	})
}
