package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/samdwyer/gamebook/internal/game"
	"github.com/samdwyer/gamebook/internal/logging"
)

// app holds what the persistent pre-run builds for every subcommand.
type app struct {
	v      *viper.Viper
	cfg    game.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "gamebook",
		Short: "Gamebook plays narrated choose-your-own-adventure stories",
		Long: `Gamebook is a terminal player for branching audio stories. Pick a story
from the menu with the number keys, listen to each section and choose what
happens next until you reach an ending.

Running gamebook with no subcommand starts the player.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: ./gamebook.yaml)")
	flags.String(keySource, "", "story source: embedded, dir or remote")
	flags.String(keyDir, "", "story directory for the dir source")
	flags.Bool(keyMute, false, "disable narration audio")
	flags.String(keyLogLevel, "", "log level: debug, info, warn or error")
	root.Flags().String(keyStory, "", "start the story with this id instead of the menu")

	root.AddCommand(
		newPlayCmd(a),
		newListCmd(a),
		newValidateCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(a.v, configFile, cmd.Flags())
	if err != nil {
		return dataError(err)
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return systemError(err)
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}
