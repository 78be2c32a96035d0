// Package host provides environments the typewriter engine can type into.
package host

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/verte-zerg/scribe/internal/typewriter"
)

// pasteCommand is one way of sending the paste chord to the focused window.
type pasteCommand struct {
	name string
	args []string
}

func pasteCommands(goos string) []pasteCommand {
	switch goos {
	case "darwin":
		return []pasteCommand{
			{name: "osascript", args: []string{"-e", `tell application "System Events" to keystroke "v" using command down`}},
		}
	case "windows":
		return nil
	default:
		return []pasteCommand{
			{name: "xdotool", args: []string{"key", "--clearmodifiers", "ctrl+v"}},
			{name: "wtype", args: []string{"-M", "ctrl", "v", "-m", "ctrl"}},
		}
	}
}

// KeystrokePaster sends the platform paste shortcut to the focused window
// using the first available helper binary.
type KeystrokePaster struct {
	runCmd   CmdFunc
	lookPath func(string) (string, error)
	commands []pasteCommand
}

// NewKeystrokePaster returns a paster for the current platform.
func NewKeystrokePaster() *KeystrokePaster {
	return &KeystrokePaster{
		runCmd:   exec.Command,
		lookPath: exec.LookPath,
		commands: pasteCommands(runtime.GOOS),
	}
}

// NewKeystrokePasterWithCmd returns a paster for goos with injectable command
// execution and lookup.
func NewKeystrokePasterWithCmd(goos string, fn CmdFunc, lookPath func(string) (string, error)) *KeystrokePaster {
	return &KeystrokePaster{
		runCmd:   fn,
		lookPath: lookPath,
		commands: pasteCommands(goos),
	}
}

// Paste implements typewriter.Paster.
func (p *KeystrokePaster) Paste() error {
	var errs []error
	for _, c := range p.commands {
		if _, err := p.lookPath(c.name); err != nil {
			continue
		}
		out, err := p.runCmd(c.name, c.args...).CombinedOutput()
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w: %s", c.name, err, strings.TrimSpace(string(out))))
	}
	if len(errs) == 0 {
		return typewriter.ErrUnsupported
	}
	return errors.Join(errs...)
}

var _ typewriter.Paster = (*KeystrokePaster)(nil)
