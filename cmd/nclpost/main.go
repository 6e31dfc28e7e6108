package main

import (
	"os"

	"github.com/msto63/nclpost/cmd/nclpost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
