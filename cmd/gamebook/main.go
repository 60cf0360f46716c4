// Package main is the entry point for the telephone gamebook player.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/samdwyer/gamebook/internal/telemetry"
)

// Exit codes.
const (
	exitOK     = 0
	exitData   = 1 // bad input: invalid stories, unknown story id, bad config
	exitSystem = 2 // I/O, network or terminal failures
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func dataError(err error) error   { return &exitError{code: exitData, err: err} }
func systemError(err error) error { return &exitError{code: exitSystem, err: err} }

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	for k, v := range telemetry.HoneycombEnv(os.Getenv("HONEYCOMB_GAMEBOOK_API_KEY"), os.Getenv("HONEYCOMB_GAMEBOOK_DATASET")) {
		os.Setenv(k, v)
	}

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Gamebook will run without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	return execute(ctx, newRootCmd(), os.Args[1:])
}

// execute runs the command tree and maps its error to an exit code.
func execute(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument parsing errors from cobra.
	return exitData
}
