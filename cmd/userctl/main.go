// Command userctl manages the user records from the command line, using the
// same storage and configuration as the server.
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/userdesk/cmd/userctl/commands"
)

var (
	// Version information (set by build flags)
	version = "dev"
	commit  = "unknown"
)

func main() {
	root := commands.NewRootCommand(os.Stdout, os.Stderr)
	root.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := root.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
