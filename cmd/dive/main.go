// Package main is the entry point for the dive CLI.
package main

import (
	"os"

	"github.com/f3rmion/dive/cmd/dive/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
