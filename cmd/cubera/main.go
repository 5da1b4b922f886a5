package main

import (
	"fmt"
	"os"

	"github.com/cubera-io/cubera/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own diagnostics; the error here only
		// carries the exit code. Cobra-level errors (unknown flags,
		// bad arguments) still need to be shown.
		code := cli.GetExitCode(err)
		if _, ok := err.(*cli.ExitError); !ok {
			fmt.Fprintln(os.Stderr, "Error:", err)
			code = cli.ExitCommandError
		}
		os.Exit(code)
	}
}
