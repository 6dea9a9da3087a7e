package main

import (
	"os"

	"github.com/tbourn/go-companion-core/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
