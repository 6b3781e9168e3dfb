// Command maxlang runs maxlang programs: a file, a one-off expression, a
// disassembly listing, or an interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(err.Error()))
		os.Exit(1)
	}
}
