package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/samdwyer/gamebook/internal/audio"
	"github.com/samdwyer/gamebook/internal/logging"
	"github.com/samdwyer/gamebook/internal/story"
)

// Story sources.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceRemote   = "remote"
)

var (
	ErrUnknownSource = errors.New("unknown story source")
	ErrDirRequired   = errors.New("story directory is required for the dir source")
)

// Config holds game configuration options.
type Config struct {
	// Source selects where stories come from: embedded, dir or remote.
	Source string `mapstructure:"source"`
	// Dir is the story directory for the dir source.
	Dir string `mapstructure:"dir"`
	// BaseURL is the backend root for the remote source and for narration.
	BaseURL string `mapstructure:"base_url"`
	// Files lists story files to read. Empty means every file (embedded, dir)
	// or the default backend files (remote).
	Files        []string      `mapstructure:"files"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	FetchTries   uint          `mapstructure:"fetch_tries"`

	// StartStory, if set, skips the menu and starts the story with this id.
	StartStory string `mapstructure:"story"`

	Audio AudioConfig `mapstructure:"audio"`
	Log   LogConfig   `mapstructure:"log"`
}

// AudioConfig selects the narration player.
type AudioConfig struct {
	Mute    bool   `mapstructure:"mute"`
	Command string `mapstructure:"command"`
	// Args default to audio.DefaultArgs only when Command is the default player.
	Args []string `mapstructure:"args"`
	// BaseURL overrides Config.BaseURL for narration files.
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig configures the diagnostics log.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
	File     string `mapstructure:"file"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Source:       SourceEmbedded,
		BaseURL:      story.DefaultBaseURL,
		FetchTimeout: 30 * time.Second,
		FetchTries:   4,
		Audio: AudioConfig{
			Command: audio.DefaultCommand,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
			File:     "gamebook.log",
		},
	}
}

// Validate checks that the configuration can build a game.
func (c Config) Validate() error {
	switch c.Source {
	case SourceEmbedded, SourceRemote:
	case SourceDir:
		if c.Dir == "" {
			return ErrDirRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source)
	}
	return nil
}

// Store builds the story store for the configured source.
func (c Config) Store(logger *zap.Logger) (story.Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Source {
	case SourceDir:
		return story.NewFSStore(os.DirFS(c.Dir), c.Files...), nil
	case SourceRemote:
		opts := []story.RemoteOption{story.WithLogger(logger)}
		if c.FetchTries > 0 {
			opts = append(opts, story.WithMaxTries(c.FetchTries))
		}
		return story.NewRemoteStore(c.BaseURL, c.Files, opts...), nil
	default:
		return story.NewFSStore(story.Embedded(), c.Files...), nil
	}
}

// AudioDriver builds the narration driver.
func (c Config) AudioDriver(logger *zap.Logger) audio.Driver {
	if c.Audio.Mute {
		return audio.NopDriver{}
	}
	return audio.NewExecDriver(c.Audio.Command, c.Audio.Args, logger)
}

// AudioURLs builds the narration URL resolver.
func (c Config) AudioURLs() story.AudioURLs {
	if c.Audio.BaseURL != "" {
		return story.NewAudioURLs(c.Audio.BaseURL)
	}
	return story.NewAudioURLs(c.BaseURL)
}

// Logging returns the logger settings.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.Log.Level,
		Encoding:   c.Log.Encoding,
		OutputPath: c.Log.File,
	}
}
