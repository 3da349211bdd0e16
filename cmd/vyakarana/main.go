// Command vyakarana joins and splits Sanskrit words by sandhi rules and
// checks sentences against a rule-based grammar.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/vyakarana/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Failed checks have already reported their result.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != cli.ExitFailure {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
