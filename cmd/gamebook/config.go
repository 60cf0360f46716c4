package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/samdwyer/gamebook/internal/game"
)

const (
	configFileName = "gamebook"
	configFileType = "yaml"
	envPrefix      = "GAMEBOOK"

	keySource       = "source"
	keyDir          = "dir"
	keyBaseURL      = "base_url"
	keyFiles        = "files"
	keyFetchTimeout = "fetch_timeout"
	keyFetchTries   = "fetch_tries"
	keyStory        = "story"
	keyMute         = "mute"
	keyLogLevel     = "log-level"

	cfgKeyMute     = "audio.mute"
	cfgKeyLogLevel = "log.level"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	keySource:   keySource,
	keyDir:      keyDir,
	keyMute:     cfgKeyMute,
	keyLogLevel: cfgKeyLogLevel,
	keyStory:    keyStory,
}

// loadConfig merges defaults, the optional config file, GAMEBOOK_* environment
// variables and flags, in increasing priority. A missing gamebook.yaml is not
// an error; a missing file named by --config is.
func loadConfig(v *viper.Viper, configFile string, flags *pflag.FlagSet) (game.Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return game.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	for flag, key := range flagKeys {
		f := flags.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return game.Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	var cfg game.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return game.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can override it.
func setDefaults(v *viper.Viper) {
	d := game.DefaultConfig()
	v.SetDefault(keySource, d.Source)
	v.SetDefault(keyDir, d.Dir)
	v.SetDefault(keyBaseURL, d.BaseURL)
	v.SetDefault(keyFiles, d.Files)
	v.SetDefault(keyFetchTimeout, d.FetchTimeout)
	v.SetDefault(keyFetchTries, d.FetchTries)
	v.SetDefault(keyStory, d.StartStory)
	v.SetDefault(cfgKeyMute, d.Audio.Mute)
	v.SetDefault("audio.command", d.Audio.Command)
	v.SetDefault("audio.args", []string{})
	v.SetDefault("audio.base_url", d.Audio.BaseURL)
	v.SetDefault(cfgKeyLogLevel, d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("log.file", d.Log.File)
}
