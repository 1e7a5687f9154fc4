package main

import (
	"os"

	"winfeatures/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
