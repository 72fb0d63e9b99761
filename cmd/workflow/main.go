package main

import (
	"os"

	"github.com/charmkar/workflow/cmd/workflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
