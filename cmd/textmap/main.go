// Package main is the entry point for textmap.
package main

import (
	"os"

	"github.com/dshills/textmap/internal/cli"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
