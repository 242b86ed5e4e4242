// Package main is the entry point for the swarmdeck CLI/TUI.
package main

import (
	"os"

	"github.com/swarmdeck/swarmdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
