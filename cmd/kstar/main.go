package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess = 0
	ExitError   = 1
)

func main() {
	// Panic recovery so unexpected errors surface as a message, not a bare
	// stack dump.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", r)
			if globalFlags.Verbose {
				fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			} else {
				fmt.Fprintln(os.Stderr, "Run with --verbose for stack trace")
			}
			os.Exit(ExitError)
		}
	}()

	ctx := context.Background()

	if err := Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	os.Exit(ExitSuccess)
}
