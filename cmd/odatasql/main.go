// Command odatasql translates OData query documents into document database
// SQL.
package main

import (
	"os"

	"github.com/roach88/odatasql/internal/cli"
)

func main() {
	// Subcommands print their own errors; cobra prints flag and usage errors.
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
