// Package main is the entry point for the hearthd daemon.
package main

import (
	"os"

	"github.com/emberhearth/hearth/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
