// Package typewriter injects text into the focused input one character at a time.
package typewriter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyText is returned by Validate for empty or blank text.
	ErrEmptyText = errors.New("text to type is empty")
	// ErrSessionActive is returned by Start while another session is running.
	ErrSessionActive = errors.New("typing session already active")
	// ErrInvalidDelay is returned by Start for negative or inverted delay bounds.
	ErrInvalidDelay = errors.New("invalid delay bounds")
)

// DeliveryError reports an unexpected fault while injecting a character.
type DeliveryError struct {
	Index int
	Char  rune
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %q at %d: %v", e.Char, e.Index, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Validate checks text before a session is started.
func Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}
