package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/scribe/internal/host"
	"github.com/verte-zerg/scribe/internal/model"
	"github.com/verte-zerg/scribe/internal/typewriter"
)

var typeFile string

func newTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type [TEXT]",
		Short: "Type text into the focused window",
		Long: `Type text into whichever window has focus after a short countdown.
Text comes from the arguments, --file or stdin. While typing, press p to
pause or resume and q to stop (when stdin is a terminal).`,
		RunE: runTypeCmd,
	}
	cmd.Flags().StringVar(&typeFile, "file", "", "read text from file")
	cmd.Flags().IntVar(&startAfterMs, "start-after", defaultStartAfterMs, "countdown before typing starts (ms)")
	return cmd
}

func runTypeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	text, fromStdin, err := readText(cmd.InOrStdin(), args, typeFile)
	if err != nil {
		return err
	}
	if err := typewriter.Validate(text); err != nil {
		return fmt.Errorf("please enter some text to type: %w", err)
	}
	if usesTmux(cfg) && !host.NewTmuxRunner().HasServer() {
		return fmt.Errorf("tmux fallback selected but no tmux server is running")
	}

	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	clip, paster := buildFallback(cfg)
	engine := newEngine(typewriter.Host{Clipboard: clip, Paster: paster}, cfg, logger)
	out := cmd.ErrOrStderr()

	waitCtx, cancelWait := context.WithCancel(cmd.Context())
	defer cancelWait()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancelWait()
			engine.Stop()
		case <-waitCtx.Done():
		}
	}()

	if err := countdown(waitCtx, out, cfg.StartAfter); err != nil {
		writeLine(out, "\r\nCancelled")
		return nil
	}

	if !fromStdin {
		restore, err := watchKeys(os.Stdin, engine)
		if err != nil {
			return err
		}
		defer restore()
	}

	completed := false
	opts := typewriter.Options{
		MinDelay: cfg.MinDelay,
		MaxDelay: cfg.MaxDelay,
		OnProgress: func(p int) {
			writeText(out, fmt.Sprintf("\rProgress %3d%%", p))
		},
		OnComplete: func() {
			completed = true
			writeLine(out, "\r\nTyping completed!")
		},
		OnPause: func() {
			writeLine(out, "\r\nPaused (p to resume)")
		},
		OnResume: func() {
			writeLine(out, "\r\nResumed")
		},
	}

	err = engine.Start(context.Background(), text, opts)
	var derr *typewriter.DeliveryError
	switch {
	case errors.As(err, &derr):
		writeLine(out, "\r\nTyping interrupted")
		return err
	case err != nil:
		return err
	case !completed:
		writeLine(out, "\r\nTyping stopped")
	}
	return nil
}

func usesTmux(cfg model.Config) bool {
	return cfg.Clipboard == model.ClipboardTmux || cfg.Paste == model.PasteTmux
}

// countdown waits d, printing the remaining whole seconds to w.
func countdown(ctx context.Context, w io.Writer, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			writeText(w, "\r\033[K")
			return nil
		}
		secs := int(math.Ceil(remaining.Seconds()))
		writeText(w, fmt.Sprintf("\rStarting in %ds, focus the target window...", secs))
		wait := remaining - time.Duration(secs-1)*time.Second
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

type keyAction int

const (
	keyNone keyAction = iota
	keyTogglePause
	keyStop
)

func actionForKey(b byte) keyAction {
	switch b {
	case 'p', 'P', ' ':
		return keyTogglePause
	case 'q', 'Q', 0x03:
		return keyStop
	default:
		return keyNone
	}
}

// watchKeys puts in into raw mode and maps key presses to engine controls.
// It does nothing when in is not a terminal.
func watchKeys(in *os.File, engine *typewriter.Engine) (func(), error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enable raw mode: %w", err)
	}
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := in.Read(buf)
			if err != nil || n == 0 {
				return
			}
			switch actionForKey(buf[0]) {
			case keyTogglePause:
				if engine.Status().IsPaused {
					engine.Resume()
				} else {
					engine.Pause()
				}
			case keyStop:
				engine.Stop()
				return
			}
		}
	}()
	return func() {
		if err := term.Restore(fd, state); err != nil {
			logErrf("failed to restore terminal: %v\n", err)
		}
	}, nil
}

func writeText(w io.Writer, s string) {
	if _, err := io.WriteString(w, s); err != nil {
		// Best-effort progress output.
		_ = err
	}
}

func writeLine(w io.Writer, s string) {
	writeText(w, s+"\r\n")
}
