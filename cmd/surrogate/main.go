// Package main is the entry point for the surrogate CLI.
package main

import (
	"os"

	"github.com/jmylchreest/surrogate/cmd/surrogate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
