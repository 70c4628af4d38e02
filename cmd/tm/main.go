package main

import (
	"fmt"
	"os"

	"task-manager/internal/cli"
	"task-manager/internal/config"
)

func main() {
	// Load configuration: defaults, config file, then environment
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(cli.ExitFailure)
	}

	// Flags are applied by the root command before the app is built
	root := cli.NewRootCommand(cfg, newAppFactory(getEnvironment()))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.NewErrorHandler().ExitCode(err))
	}
}
