// Package main provides the entry point for the astrophoenix CLI.
package main

import (
	"os"

	"github.com/TinyDragon612/astrophoenix-host/cmd/astrophoenix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
