package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/gamebook/internal/game"
)

func newPlayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run the terminal player",
		Long: `Play opens the story menu in the terminal. Keys:

  1-9      pick a story or a choice
  r or *   replay the current narration
  m, 0, #  return to the menu
  q, Esc   quit

Example:
  gamebook play
  gamebook play --story lighthouse
  gamebook play --source remote`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd)
		},
	}
	cmd.Flags().String(keyStory, "", "start the story with this id instead of the menu")
	return cmd
}

func (a *app) play(cmd *cobra.Command) error {
	g, err := game.New(a.cfg, a.logger)
	if err != nil {
		return systemError(fmt.Errorf("failed to initialize game: %w", err))
	}

	if err := g.Run(cmd.Context()); err != nil {
		return systemError(fmt.Errorf("game error: %w", err))
	}
	return nil
}
