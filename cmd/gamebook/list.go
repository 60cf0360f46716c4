package main

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samdwyer/gamebook/internal/story"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available stories",
		Long: `List prints every story from the configured source in menu order, with
the number to press and the story id.

Example:
  gamebook list
  gamebook list --source dir --dir ./stories`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stories, err := a.fetch(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, st := range stories {
				fmt.Fprintf(out, "%d. %s (%s)\n", i+1, st.Title, st.ID)
			}
			return nil
		},
	}
}

// fetch loads the stories from the configured source.
func (a *app) fetch(ctx context.Context) ([]*story.Story, error) {
	store, err := a.cfg.Store(a.logger)
	if err != nil {
		return nil, dataError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	stories, err := store.Fetch(ctx)
	if err != nil {
		a.logger.Error("Failed to load stories", zap.Error(err))
		return nil, fetchError(err)
	}
	return stories, nil
}

// fetchError classifies a store failure. Transport failures are system
// errors; everything else is a problem with the story data.
func fetchError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, story.ErrHTTPStatus),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		return systemError(err)
	default:
		return dataError(err)
	}
}
