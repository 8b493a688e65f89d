// Package main is the entry point for the suity CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/suity/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
