// Package main is the entry point for the checkrun CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/checkrun/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
