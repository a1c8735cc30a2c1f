// Package main is the entry point for the glazeworks CLI.
package main

import (
	"os"

	"glazeworks/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
