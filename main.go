// ./main.go
package main

import (
	"github.com/hbarrow/pandasuite/cmd"
)

// main is the entry point for the pandasuite runner.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
