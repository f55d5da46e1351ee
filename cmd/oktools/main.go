package main

import (
	"os"

	"github.com/matthew-brett/oktools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
