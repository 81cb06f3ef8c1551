package main

import (
	"os"

	"github.com/wonny/tradex/cmd/tradex/commands"
)

// main is the entry point for the tradex CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
