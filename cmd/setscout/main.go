// Package main provides the entry point for the setscout CLI.
package main

import (
	"os"

	"github.com/setscout/setscout/cmd/setscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
