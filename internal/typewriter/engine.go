// Package typewriter injects text into the focused input one character at a time.
package typewriter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/scribe/internal/logging"
)

const (
	// DefaultMinDelay is the lower bound of the base per-character delay.
	DefaultMinDelay = 50 * time.Millisecond
	// DefaultMaxDelay is the upper bound of the base per-character delay.
	DefaultMaxDelay = 150 * time.Millisecond
	// DefaultPollInterval is how often a paused session rechecks its state.
	DefaultPollInterval = 100 * time.Millisecond
)

// Options configures a single typing session. Zero delay bounds select the
// defaults. All callbacks are optional. OnProgress and OnComplete run on the
// goroutine that called Start; OnPause and OnResume run on the goroutine that
// called Pause or Resume.
type Options struct {
	MinDelay   time.Duration
	MaxDelay   time.Duration
	OnProgress func(percent int)
	OnComplete func()
	OnPause    func()
	OnResume   func()
}

func (o Options) withDefaults() (Options, error) {
	if o.MinDelay < 0 || o.MaxDelay < 0 {
		return o, fmt.Errorf("%w: negative delay", ErrInvalidDelay)
	}
	if o.MinDelay == 0 {
		o.MinDelay = DefaultMinDelay
	}
	if o.MaxDelay == 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	if o.MaxDelay < o.MinDelay {
		return o, fmt.Errorf("%w: max %s < min %s", ErrInvalidDelay, o.MaxDelay, o.MinDelay)
	}
	return o, nil
}

// Status is a snapshot of the engine state.
type Status struct {
	IsTyping bool
	IsPaused bool
	Progress int
}

// Clock suspends the injection loop.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// lockedSource serializes draws; a stopped loop may still be unwinding while
// the next session already runs.
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

type session struct {
	text      []rune
	cursor    int
	active    bool
	paused    bool
	cancelled bool
	opts      Options
}

// Engine runs at most one typing session at a time.
type Engine struct {
	host         Host
	clock        Clock
	rnd          Source
	logger       *slog.Logger
	pollInterval time.Duration

	mu  sync.Mutex
	cur *session
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock replaces the clock used for delays and pause polling.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithSource replaces the randomness behind the delay model.
func WithSource(src Source) EngineOption {
	return func(e *Engine) { e.rnd = &lockedSource{src: src} }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithPollInterval sets how often a paused session rechecks its state.
func WithPollInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// New returns an idle Engine reaching the environment through host.
func New(host Host, opts ...EngineOption) *Engine {
	e := &Engine{
		host:         host,
		clock:        realClock{},
		rnd:          &lockedSource{src: NewSource(0)},
		logger:       logging.Discard(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start types text into the focused target and blocks until the session ends.
// It returns nil when the text was fully typed or the session was stopped,
// ErrSessionActive when another session is running, ctx.Err() when ctx is
// cancelled and a *DeliveryError when injection failed unexpectedly.
func (e *Engine) Start(ctx context.Context, text string, opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.cur != nil && e.cur.active {
		e.mu.Unlock()
		return ErrSessionActive
	}
	s := &session{text: []rune(text), active: true, opts: opts}
	e.cur = s
	e.mu.Unlock()

	e.logger.Info("typing started", "chars", len(s.text), "min_delay", opts.MinDelay, "max_delay", opts.MaxDelay)
	defer e.finish(s)
	return e.run(ctx, s)
}

func (e *Engine) run(ctx context.Context, s *session) error {
	model := NewDelayModel(s.opts.MinDelay, s.opts.MaxDelay, e.rnd)
	total := len(s.text)

	for i, ch := range s.text {
		if e.interrupted(ctx, s) {
			return e.stopReason(ctx)
		}
		for e.waiting(s) {
			if err := e.clock.Sleep(ctx, e.pollInterval); err != nil {
				e.cancel(s)
				return err
			}
		}
		if e.interrupted(ctx, s) {
			return e.stopReason(ctx)
		}

		e.mu.Lock()
		s.cursor = i
		e.mu.Unlock()

		delay := model.Delay(ch)
		if err := e.deliver(ch); err != nil {
			e.cancel(s)
			derr := &DeliveryError{Index: i, Char: ch, Err: err}
			e.logger.Error("typing interrupted", "err", derr)
			return derr
		}

		progress := percent(i+1, total)
		e.emit(s, func() {
			if s.opts.OnProgress != nil {
				s.opts.OnProgress(progress)
			}
		})

		if err := e.clock.Sleep(ctx, delay); err != nil {
			e.cancel(s)
			return err
		}
	}

	if total == 0 {
		e.emit(s, func() {
			if s.opts.OnProgress != nil {
				s.opts.OnProgress(100)
			}
		})
	}

	e.mu.Lock()
	if !s.cancelled {
		s.cursor = total
	}
	e.mu.Unlock()

	if e.emit(s, func() {
		if s.opts.OnComplete != nil {
			s.opts.OnComplete()
		}
	}) {
		e.logger.Info("typing completed", "chars", total)
	}
	return nil
}

// emit runs fn unless the session has been cancelled. The lock is released
// before fn runs so callbacks may call back into the engine; a Stop landing
// after the check lets at most this one callback through.
func (e *Engine) emit(s *session, fn func()) bool {
	e.mu.Lock()
	cancelled := s.cancelled
	e.mu.Unlock()
	if cancelled {
		return false
	}
	fn()
	return true
}

func (e *Engine) interrupted(ctx context.Context, s *session) bool {
	if ctx.Err() != nil {
		e.cancel(s)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return s.cancelled
}

func (e *Engine) waiting(s *session) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return s.paused && !s.cancelled
}

func (e *Engine) stopReason(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.logger.Debug("typing loop exited", "reason", "stopped")
	return nil
}

func (e *Engine) cancel(s *session) {
	e.mu.Lock()
	s.cancelled = true
	e.mu.Unlock()
}

func (e *Engine) finish(s *session) {
	e.mu.Lock()
	s.active = false
	s.paused = false
	e.mu.Unlock()
}

func (e *Engine) deliver(ch rune) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if target := e.host.focused(); target != nil {
		return appendTo(target, string(ch))
	}
	e.pasteFallback(string(ch))
	return nil
}

func appendTo(target Target, s string) error {
	value := target.Value() + s
	if err := target.SetValue(value); err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	if err := target.Dispatch(EventInput); err != nil {
		return fmt.Errorf("dispatch %s: %w", EventInput, err)
	}
	if err := target.Dispatch(EventChange); err != nil {
		return fmt.Errorf("dispatch %s: %w", EventChange, err)
	}
	end := utf8.RuneCountInString(value)
	if err := target.SetSelectionRange(end, end); err != nil {
		return fmt.Errorf("set selection: %w", err)
	}
	return nil
}

func (e *Engine) pasteFallback(s string) {
	if err := e.host.writeClipboard(s); err != nil {
		e.logger.Warn("could not simulate typing, clipboard access denied", "err", err)
		return
	}
	if err := e.host.paste(); err != nil {
		e.logger.Warn("could not simulate typing, paste failed", "err", err)
	}
}

// Pause suspends the running session. It does nothing unless a session is
// running and not already paused.
func (e *Engine) Pause() {
	e.mu.Lock()
	s := e.cur
	if s == nil || !s.active || s.paused {
		e.mu.Unlock()
		return
	}
	s.paused = true
	cb := s.opts.OnPause
	e.mu.Unlock()

	e.logger.Info("typing paused")
	if cb != nil {
		cb()
	}
}

// Resume continues a paused session from its current position.
func (e *Engine) Resume() {
	e.mu.Lock()
	s := e.cur
	if s == nil || !s.active || !s.paused {
		e.mu.Unlock()
		return
	}
	s.paused = false
	cb := s.opts.OnResume
	e.mu.Unlock()

	e.logger.Info("typing resumed")
	if cb != nil {
		cb()
	}
}

// Stop cancels the running session. The engine reports idle as soon as Stop
// returns and the loop exits at its next checkpoint. No callback is dispatched
// after Stop returns, but a progress or completion callback the loop had
// already dispatched may still run; callers on another goroutine must tolerate
// one such late call.
func (e *Engine) Stop() {
	e.mu.Lock()
	s := e.cur
	if s == nil || !s.active {
		e.mu.Unlock()
		return
	}
	s.cancelled = true
	s.active = false
	s.paused = false
	e.mu.Unlock()

	e.logger.Info("typing stopped")
}

// Status returns a snapshot of the current or most recent session.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.cur
	if s == nil {
		return Status{}
	}
	return Status{
		IsTyping: s.active,
		IsPaused: s.paused,
		Progress: percent(s.cursor, len(s.text)),
	}
}
