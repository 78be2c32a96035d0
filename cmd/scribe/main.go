// Package main provides the CLI entrypoint for scribe.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/scribe/internal/config"
	"github.com/verte-zerg/scribe/internal/host"
	"github.com/verte-zerg/scribe/internal/logging"
	"github.com/verte-zerg/scribe/internal/model"
	"github.com/verte-zerg/scribe/internal/tui"
	"github.com/verte-zerg/scribe/internal/typewriter"
)

const (
	defaultMinDelayMs     = 50
	defaultMaxDelayMs     = 150
	defaultPollIntervalMs = 100
	defaultStartAfterMs   = 3000
	defaultLogLevel       = "warn"
	defaultLogFormat      = "text"
)

var (
	minDelayMs     int
	maxDelayMs     int
	pollIntervalMs int
	startAfterMs   int
	seed           int64
	clipboardMode  string
	pasteMode      string
	tmuxTarget     string
	logLevel       string
	logFormat      string
	logFile        string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "scribe",
		Short:         "Type text into the focused input with human-like timing",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPanelCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&minDelayMs, "min-delay", defaultMinDelayMs, "minimum base delay per character (ms)")
	flags.IntVar(&maxDelayMs, "max-delay", defaultMaxDelayMs, "maximum base delay per character (ms)")
	flags.IntVar(&pollIntervalMs, "poll-interval", defaultPollIntervalMs, "pause recheck interval (ms)")
	flags.Int64Var(&seed, "seed", 0, "random seed for delays (0 = time-seeded)")
	flags.StringVar(&clipboardMode, "clipboard", model.ClipboardSystem, "fallback clipboard: system, tmux or none")
	flags.StringVar(&pasteMode, "paste", model.PasteKeystroke, "fallback paste: keystroke, tmux or none")
	flags.StringVar(&tmuxTarget, "tmux-target", "", "tmux pane for tmux paste (default: active pane)")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", defaultLogFormat, "log format: text or json")
	flags.StringVar(&logFile, "log-file", "", "write logs to file instead of stderr")

	rootCmd.AddCommand(newTypeCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPanelCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	clip, paster := buildFallback(cfg)
	form := host.NewForm()
	engine := newEngine(typewriter.Host{Resolver: form, Clipboard: clip, Paster: paster}, cfg, logger)

	panel := tui.NewModel(engine, form, typewriter.Options{MinDelay: cfg.MinDelay, MaxDelay: cfg.MaxDelay})
	program := tea.NewProgram(panel, tea.WithAltScreen())
	panel.SetSender(program.Send)
	if _, err := program.Run(); err != nil {
		engine.Stop()
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	engine.Stop()
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveConfig merges the config file into flags the user did not set.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "min-delay", &minDelayMs, fileCfg.Typing.MinDelay)
	applyIntConfig(cmd, "max-delay", &maxDelayMs, fileCfg.Typing.MaxDelay)
	applyIntConfig(cmd, "poll-interval", &pollIntervalMs, fileCfg.Typing.PollInterval)
	applyIntConfig(cmd, "start-after", &startAfterMs, fileCfg.Typing.StartAfter)
	applyInt64Config(cmd, "seed", &seed, fileCfg.Typing.Seed)
	applyStringConfig(cmd, "clipboard", &clipboardMode, fileCfg.Fallback.Clipboard)
	applyStringConfig(cmd, "paste", &pasteMode, fileCfg.Fallback.Paste)
	applyStringConfig(cmd, "tmux-target", &tmuxTarget, fileCfg.Fallback.TmuxTarget)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	cfg := model.Config{
		MinDelay:     msDuration(minDelayMs, typewriter.DefaultMinDelay),
		MaxDelay:     msDuration(maxDelayMs, typewriter.DefaultMaxDelay),
		PollInterval: msDuration(pollIntervalMs, typewriter.DefaultPollInterval),
		StartAfter:   time.Duration(startAfterMs) * time.Millisecond,
		Seed:         seed,
		Clipboard:    strings.ToLower(strings.TrimSpace(clipboardMode)),
		Paste:        strings.ToLower(strings.TrimSpace(pasteMode)),
		TmuxTarget:   strings.TrimSpace(tmuxTarget),
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		LogFile:      logFile,
	}
	if err := validateConfig(cfg, minDelayMs, maxDelayMs, pollIntervalMs, startAfterMs); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// msDuration converts milliseconds; zero selects def.
func msDuration(ms int, def time.Duration) time.Duration {
	if ms == 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func validateConfig(cfg model.Config, minMs, maxMs, pollMs, startMs int) error {
	if minMs < 0 {
		return fmt.Errorf("--min-delay must be >= 0")
	}
	if maxMs < 0 {
		return fmt.Errorf("--max-delay must be >= 0")
	}
	if cfg.MaxDelay < cfg.MinDelay {
		return fmt.Errorf("--max-delay must be >= --min-delay")
	}
	if pollMs < 0 {
		return fmt.Errorf("--poll-interval must be >= 0")
	}
	if startMs < 0 {
		return fmt.Errorf("--start-after must be >= 0")
	}
	switch cfg.Clipboard {
	case model.ClipboardSystem, model.ClipboardTmux, model.FallbackNone:
	default:
		return fmt.Errorf("--clipboard must be one of system, tmux, none")
	}
	switch cfg.Paste {
	case model.PasteKeystroke, model.PasteTmux, model.FallbackNone:
	default:
		return fmt.Errorf("--paste must be one of keystroke, tmux, none")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	if _, err := logging.ParseFormat(cfg.LogFormat); err != nil {
		return fmt.Errorf("--log-format: %w", err)
	}
	return nil
}

// newLogger builds the diagnostic logger. The panel owns the terminal, so it
// only logs when a log file is configured.
func newLogger(cfg model.Config, panel bool) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = format
	closeLog := func() {}
	switch {
	case cfg.LogFile != "":
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		lc.Output = file
		closeLog = func() {
			if cerr := file.Close(); cerr != nil {
				logErrf("failed to close log file: %v\n", cerr)
			}
		}
	case panel:
		return logging.Discard(), closeLog, nil
	}
	return logging.New(lc), closeLog, nil
}

func buildFallback(cfg model.Config) (typewriter.Clipboard, typewriter.Paster) {
	var runner *host.TmuxRunner
	tmux := func() *host.TmuxRunner {
		if runner == nil {
			runner = host.NewTmuxRunner()
		}
		return runner
	}

	var clip typewriter.Clipboard = host.Unavailable{}
	switch cfg.Clipboard {
	case model.ClipboardSystem:
		clip = host.SystemClipboard{}
	case model.ClipboardTmux:
		clip = host.TmuxBuffer{Runner: tmux(), Buffer: host.DefaultTmuxBuffer}
	}

	var paster typewriter.Paster = host.Unavailable{}
	switch cfg.Paste {
	case model.PasteKeystroke:
		paster = host.NewKeystrokePaster()
	case model.PasteTmux:
		paster = host.TmuxPaster{Runner: tmux(), Buffer: host.DefaultTmuxBuffer, Pane: cfg.TmuxTarget}
	}
	return clip, paster
}

func newEngine(h typewriter.Host, cfg model.Config, logger *slog.Logger) *typewriter.Engine {
	return typewriter.New(h,
		typewriter.WithSource(typewriter.NewSource(cfg.Seed)),
		typewriter.WithLogger(logger),
		typewriter.WithPollInterval(cfg.PollInterval),
	)
}

// readText returns the text to type from args, a file or in, and whether it
// came from in.
func readText(in io.Reader, args []string, file string) (string, bool, error) {
	if len(args) > 0 && file != "" {
		return "", false, fmt.Errorf("pass text as arguments or --file, not both")
	}
	if len(args) > 0 {
		return strings.Join(args, " "), false, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read text file: %w", err)
		}
		return strings.TrimSuffix(string(data), "\n"), false, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", true, fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), true, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# scribe configuration
# Uncomment a value to enable it. CLI flags override config values.

[typing]
# min-delay = %d          # Minimum base delay per character (ms)
# max-delay = %d         # Maximum base delay per character (ms)
# poll-interval = %d     # Pause recheck interval (ms)
# start-after = %d      # Countdown before "scribe type" starts (ms)
# seed = 0                # Random seed for delays (0 = time-seeded)

[fallback]
# clipboard = %q     # system, tmux or none
# paste = %q      # keystroke, tmux or none
# tmux-target = ""        # tmux pane (default: active pane)

[log]
# level = %q           # debug, info, warn or error
# format = %q         # text or json
# file = ""               # Log file (the panel only logs to a file)
`,
		defaultMinDelayMs,
		defaultMaxDelayMs,
		defaultPollIntervalMs,
		defaultStartAfterMs,
		model.ClipboardSystem,
		model.PasteKeystroke,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
