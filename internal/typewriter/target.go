// Package typewriter injects text into the focused input one character at a time.
package typewriter

import "errors"

// ErrUnsupported is returned by host capabilities that are not available.
var ErrUnsupported = errors.New("capability not supported by host")

// EventType names a notification dispatched to a target after its value changes.
type EventType string

const (
	// EventInput reports a value edit made by user input.
	EventInput EventType = "input"
	// EventChange reports a committed value.
	EventChange EventType = "change"
)

// Target is an element that accepts direct textual value mutation.
type Target interface {
	Value() string
	SetValue(value string) error
	// Dispatch emits a bubbling notification of the given type.
	Dispatch(event EventType) error
	SetSelectionRange(start, end int) error
}

// Resolver returns the target that currently has focus, or nil when nothing
// editable is focused. It is consulted once per character.
type Resolver interface {
	Focused() Target
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func() Target

// Focused implements Resolver.
func (f ResolverFunc) Focused() Target {
	return f()
}

// Clipboard stages text for a later paste.
type Clipboard interface {
	WriteText(text string) error
}

// Paster issues the host paste command.
type Paster interface {
	Paste() error
}

// Host bundles the capabilities the engine reaches the environment through.
// Nil fields are treated as unavailable.
type Host struct {
	Resolver  Resolver
	Clipboard Clipboard
	Paster    Paster
}

func (h Host) focused() Target {
	if h.Resolver == nil {
		return nil
	}
	return h.Resolver.Focused()
}

func (h Host) writeClipboard(text string) error {
	if h.Clipboard == nil {
		return ErrUnsupported
	}
	return h.Clipboard.WriteText(text)
}

func (h Host) paste() error {
	if h.Paster == nil {
		return ErrUnsupported
	}
	return h.Paster.Paste()
}
