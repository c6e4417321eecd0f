// Command tmengine merges, deduplicates and persists topic maps.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tmengine/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
