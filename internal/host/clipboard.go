// Package host provides environments the typewriter engine can type into.
package host

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/verte-zerg/scribe/internal/typewriter"
)

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

// WriteText implements typewriter.Clipboard.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return typewriter.ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Unavailable is a clipboard and paster for hosts without either capability.
type Unavailable struct{}

// WriteText implements typewriter.Clipboard.
func (Unavailable) WriteText(string) error {
	return typewriter.ErrUnsupported
}

// Paste implements typewriter.Paster.
func (Unavailable) Paste() error {
	return typewriter.ErrUnsupported
}

var (
	_ typewriter.Clipboard = SystemClipboard{}
	_ typewriter.Clipboard = Unavailable{}
	_ typewriter.Paster    = Unavailable{}
)
