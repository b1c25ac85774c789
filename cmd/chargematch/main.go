// Package main is the entry point for the chargematch CLI.
package main

import (
	"os"

	"github.com/chargematch/backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
