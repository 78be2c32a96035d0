// Package model defines shared data structures.
package model

import "time"

// Fallback modes for the clipboard stage and the paste step.
const (
	ClipboardSystem = "system"
	ClipboardTmux   = "tmux"
	PasteKeystroke  = "keystroke"
	PasteTmux       = "tmux"
	FallbackNone    = "none"
)

// Config defines typing settings resolved from flags and the config file.
type Config struct {
	MinDelay     time.Duration
	MaxDelay     time.Duration
	PollInterval time.Duration
	StartAfter   time.Duration
	Seed         int64
	Clipboard    string
	Paste        string
	TmuxTarget   string
	LogLevel     string
	LogFormat    string
	LogFile      string
}

// PreviewConfig defines options for the delay preview output.
type PreviewConfig struct {
	Runs   int
	Smooth int
	Width  int
	Color  bool
}
