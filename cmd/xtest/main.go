package main

import (
	"fmt"
	"os"

	"xtest/internal/cli/commands"
)

var version = "dev"

func main() {
	rootCmd := commands.NewRootCommand(version)

	err := rootCmd.Execute()
	if err != nil && err != commands.ErrTestsFailed {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(commands.ExitCode(err))
}
