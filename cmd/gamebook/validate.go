package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// errInvalidStories is returned after the problems have been printed.
var errInvalidStories = errors.New("stories failed validation")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every story for broken links and missing sections",
		Long: `Validate loads every story from the configured source and reports
missing start sections, choices pointing at unknown sections, sections that
neither end the story nor offer choices, unknown ending types and duplicate
story ids. It exits with status 1 when any problem is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stories, err := a.fetch(cmd.Context())
			if err != nil {
				var ee *exitError
				if errors.As(err, &ee) && ee.code == exitData {
					for _, line := range strings.Split(err.Error(), "\n") {
						fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
					}
					return dataError(errInvalidStories)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d stories OK\n", len(stories))
			return nil
		},
	}
}
