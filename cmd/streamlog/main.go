// Package main provides the entry point for the streamlog CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/streamlog/cmd/streamlog/cmd"
	"github.com/Aman-CERP/streamlog/internal/output"
)

func main() {
	if err := cmd.Execute(); err != nil {
		output.New(os.Stderr).Failure(err)
		os.Exit(cmd.ExitCode(err))
	}
}
