package main

import (
	"fmt"
	"os"

	"github.com/de-tools/cloud-sync/pkg/runtime/terminal"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
