// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Typing   TypingConfig   `toml:"typing"`
	Fallback FallbackConfig `toml:"fallback"`
	Log      LogConfig      `toml:"log"`
}

// TypingConfig maps delay and pacing settings. Durations are milliseconds.
type TypingConfig struct {
	MinDelay     *int   `toml:"min-delay"`
	MaxDelay     *int   `toml:"max-delay"`
	PollInterval *int   `toml:"poll-interval"`
	StartAfter   *int   `toml:"start-after"`
	Seed         *int64 `toml:"seed"`
}

// FallbackConfig selects how characters reach an unfocused environment.
type FallbackConfig struct {
	Clipboard  *string `toml:"clipboard"`
	Paste      *string `toml:"paste"`
	TmuxTarget *string `toml:"tmux-target"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	File   *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
