package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/scribe/internal/config"
	"github.com/verte-zerg/scribe/internal/host"
	"github.com/verte-zerg/scribe/internal/model"
)

func validConfig() model.Config {
	return model.Config{
		MinDelay:  50 * time.Millisecond,
		MaxDelay:  150 * time.Millisecond,
		Clipboard: model.ClipboardSystem,
		Paste:     model.PasteKeystroke,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig(), 50, 150, 100, 0); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	inverted := validConfig()
	inverted.MinDelay = 200 * time.Millisecond
	if err := validateConfig(inverted, 200, 150, 100, 0); err == nil {
		t.Fatalf("expected error for max < min")
	}
	if err := validateConfig(validConfig(), -1, 150, 100, 0); err == nil {
		t.Fatalf("expected error for negative min delay")
	}
	if err := validateConfig(validConfig(), 50, 150, 100, -5); err == nil {
		t.Fatalf("expected error for negative start-after")
	}

	badClipboard := validConfig()
	badClipboard.Clipboard = "x11"
	if err := validateConfig(badClipboard, 50, 150, 100, 0); err == nil {
		t.Fatalf("expected error for unknown clipboard mode")
	}
	badPaste := validConfig()
	badPaste.Paste = "ctrl-v"
	if err := validateConfig(badPaste, 50, 150, 100, 0); err == nil {
		t.Fatalf("expected error for unknown paste mode")
	}
	badLevel := validConfig()
	badLevel.LogLevel = "loud"
	if err := validateConfig(badLevel, 50, 150, 100, 0); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestMsDurationZeroSelectsDefault(t *testing.T) {
	if got := msDuration(0, 50*time.Millisecond); got != 50*time.Millisecond {
		t.Fatalf("expected default, got %s", got)
	}
	if got := msDuration(20, 50*time.Millisecond); got != 20*time.Millisecond {
		t.Fatalf("expected 20ms, got %s", got)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template does not decode: %v", err)
	}

	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("uncommented template does not decode: %v", err)
	}
	if cfg.Typing.MinDelay == nil || *cfg.Typing.MinDelay != defaultMinDelayMs {
		t.Fatalf("unexpected min-delay: %v", cfg.Typing.MinDelay)
	}
	if cfg.Fallback.Paste == nil || *cfg.Fallback.Paste != model.PasteKeystroke {
		t.Fatalf("unexpected paste mode: %v", cfg.Fallback.Paste)
	}
	if cfg.Log.File == nil || *cfg.Log.File != "" {
		t.Fatalf("unexpected log file: %v", cfg.Log.File)
	}
}

func TestReadText(t *testing.T) {
	text, fromStdin, err := readText(strings.NewReader("ignored"), []string{"hello", "world"}, "")
	if err != nil || fromStdin || text != "hello world" {
		t.Fatalf("unexpected args result: %q %v %v", text, fromStdin, err)
	}

	text, fromStdin, err = readText(strings.NewReader("from stdin\n"), nil, "")
	if err != nil || !fromStdin || text != "from stdin" {
		t.Fatalf("unexpected stdin result: %q %v %v", text, fromStdin, err)
	}

	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte("line one\nline two\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	text, _, err = readText(strings.NewReader(""), nil, path)
	if err != nil || text != "line one\nline two" {
		t.Fatalf("unexpected file result: %q %v", text, err)
	}

	if _, _, err := readText(strings.NewReader(""), []string{"x"}, path); err == nil {
		t.Fatalf("expected error for args with --file")
	}
}

func TestActionForKey(t *testing.T) {
	cases := map[byte]keyAction{
		'p':  keyTogglePause,
		' ':  keyTogglePause,
		'q':  keyStop,
		0x03: keyStop,
		'x':  keyNone,
	}
	for b, want := range cases {
		if got := actionForKey(b); got != want {
			t.Fatalf("key %q: expected %v, got %v", b, want, got)
		}
	}
}

func TestCountdownCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out strings.Builder
	if err := countdown(ctx, &out, time.Hour); err == nil {
		t.Fatalf("expected cancelled countdown")
	}
	if !strings.Contains(out.String(), "Starting in") {
		t.Fatalf("expected countdown notice, got %q", out.String())
	}
	if err := countdown(context.Background(), &out, 0); err != nil {
		t.Fatalf("expected no wait for zero countdown: %v", err)
	}
}

func TestBuildFallbackModes(t *testing.T) {
	cfg := validConfig()
	clip, paster := buildFallback(cfg)
	if _, ok := clip.(host.SystemClipboard); !ok {
		t.Fatalf("expected system clipboard, got %T", clip)
	}
	if _, ok := paster.(*host.KeystrokePaster); !ok {
		t.Fatalf("expected keystroke paster, got %T", paster)
	}

	cfg.Clipboard = model.ClipboardTmux
	cfg.Paste = model.PasteTmux
	cfg.TmuxTarget = "%3"
	clip, paster = buildFallback(cfg)
	buf, ok := clip.(host.TmuxBuffer)
	if !ok {
		t.Fatalf("expected tmux buffer, got %T", clip)
	}
	tp, ok := paster.(host.TmuxPaster)
	if !ok {
		t.Fatalf("expected tmux paster, got %T", paster)
	}
	if buf.Runner != tp.Runner {
		t.Fatalf("expected shared tmux runner")
	}
	if tp.Pane != "%3" {
		t.Fatalf("expected pane %%3, got %q", tp.Pane)
	}

	cfg.Clipboard = model.FallbackNone
	cfg.Paste = model.FallbackNone
	clip, paster = buildFallback(cfg)
	if _, ok := clip.(host.Unavailable); !ok {
		t.Fatalf("expected unavailable clipboard, got %T", clip)
	}
	if _, ok := paster.(host.Unavailable); !ok {
		t.Fatalf("expected unavailable paster, got %T", paster)
	}
}

func TestValidatePreviewConfig(t *testing.T) {
	if err := validatePreviewConfig(model.PreviewConfig{Runs: 1, Smooth: 1}); err != nil {
		t.Fatalf("expected valid preview config: %v", err)
	}
	if err := validatePreviewConfig(model.PreviewConfig{Runs: 0, Smooth: 1}); err == nil {
		t.Fatalf("expected error for zero runs")
	}
	if err := validatePreviewConfig(model.PreviewConfig{Runs: 1, Smooth: 1, Width: -1}); err == nil {
		t.Fatalf("expected error for negative width")
	}
}
