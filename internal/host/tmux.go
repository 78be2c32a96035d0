// Package host provides environments the typewriter engine can type into.
package host

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/verte-zerg/scribe/internal/typewriter"
)

// DefaultTmuxBuffer is the tmux paste buffer used to stage characters.
const DefaultTmuxBuffer = "scribe"

// CmdFunc is the signature for creating an *exec.Cmd. It matches exec.Command.
type CmdFunc func(name string, args ...string) *exec.Cmd

// TmuxRunner calls the tmux binary. The runCmd field is injectable for testing.
type TmuxRunner struct {
	runCmd CmdFunc
}

// NewTmuxRunner creates a TmuxRunner that calls the real tmux binary.
func NewTmuxRunner() *TmuxRunner {
	return &TmuxRunner{runCmd: exec.Command}
}

// NewTmuxRunnerWithCmd creates a TmuxRunner with a custom command function for testing.
func NewTmuxRunnerWithCmd(fn CmdFunc) *TmuxRunner {
	return &TmuxRunner{runCmd: fn}
}

// SetBuffer stores text in the named tmux paste buffer.
func (r *TmuxRunner) SetBuffer(name, text string) error {
	cmd := r.runCmd("tmux", "set-buffer", "-b", name, "--", text)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tmux set-buffer %q: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// PasteBuffer pastes the named buffer into pane. An empty pane pastes into
// the active pane.
func (r *TmuxRunner) PasteBuffer(name, pane string) error {
	args := []string{"paste-buffer", "-b", name}
	if pane != "" {
		args = append(args, "-t", pane)
	}
	cmd := r.runCmd("tmux", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tmux paste-buffer %q: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ActivePane returns the id of the pane that currently has focus.
func (r *TmuxRunner) ActivePane() (string, error) {
	cmd := r.runCmd("tmux", "display-message", "-p", "#{pane_id}")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tmux display-message: %w: %s", err, strings.TrimSpace(string(out)))
	}
	pane := strings.TrimSpace(string(out))
	if pane == "" {
		return "", fmt.Errorf("tmux display-message: no active pane")
	}
	return pane, nil
}

// HasServer reports whether a tmux server is reachable.
func (r *TmuxRunner) HasServer() bool {
	cmd := r.runCmd("tmux", "list-sessions")
	return cmd.Run() == nil
}

// TmuxBuffer stages characters in a tmux paste buffer.
type TmuxBuffer struct {
	Runner *TmuxRunner
	Buffer string
}

// WriteText implements typewriter.Clipboard.
func (b TmuxBuffer) WriteText(text string) error {
	return b.Runner.SetBuffer(bufferName(b.Buffer), text)
}

// TmuxPaster pastes the staged buffer into a tmux pane. With an empty Pane
// the active pane is looked up again on every paste.
type TmuxPaster struct {
	Runner *TmuxRunner
	Buffer string
	Pane   string
}

// Paste implements typewriter.Paster.
func (p TmuxPaster) Paste() error {
	pane := p.Pane
	if pane == "" {
		active, err := p.Runner.ActivePane()
		if err != nil {
			return err
		}
		pane = active
	}
	return p.Runner.PasteBuffer(bufferName(p.Buffer), pane)
}

func bufferName(name string) string {
	if name == "" {
		return DefaultTmuxBuffer
	}
	return name
}

var (
	_ typewriter.Clipboard = TmuxBuffer{}
	_ typewriter.Paster    = TmuxPaster{}
)
