package main

import (
	"os"

	"github.com/faize-ai/archbox/internal/cmd"
	"github.com/faize-ai/archbox/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
