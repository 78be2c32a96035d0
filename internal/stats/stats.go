// Package stats summarizes delay schedules produced by the typing engine.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM and CPM for chars typed over durationMs.
func SessionMetrics(chars int, durationMs int64) (wpm, cpm float64) {
	if durationMs <= 0 {
		return 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(chars) / 5.0) / minutes
	cpm = float64(chars) / minutes
	return wpm, cpm
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for b := 0; b < width; b++ {
		lo := b * len(values) / width
		hi := (b + 1) * len(values) / width
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[b] = sum / float64(hi-lo)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the expected duration and typing speed of a schedule.
func RenderSummary(w io.Writer, s Schedule) error {
	if len(s.Chars) == 0 || len(s.Runs) == 0 {
		_, err := fmt.Fprintln(w, "Nothing to type.")
		return err
	}
	mean, lo, hi := s.Totals()
	wpm, cpm := SessionMetrics(len(s.Chars), mean.Milliseconds())
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Characters: %d\n", len(s.Chars)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Runs: %d\n", len(s.Runs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Expected duration: %s (min %s, max %s)\n", mean.Round(time.Millisecond), lo, hi); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Expected WPM: %.2f\n", wpm); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Expected CPM: %.2f\n", cpm); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderSparkline prints the per-character delays of the first run, smoothed
// over a moving window and squeezed to width columns.
func RenderSparkline(w io.Writer, s Schedule, width, window int, useColor bool) error {
	if len(s.Runs) == 0 || len(s.Runs[0]) == 0 {
		return nil
	}
	values := make([]float64, len(s.Runs[0]))
	for i, d := range s.Runs[0] {
		values[i] = float64(d.Milliseconds())
	}
	line := Sparkline(Downsample(MovingAverage(values, window), width))
	if useColor {
		line = colorCyan + line + colorReset
	}
	if _, err := fmt.Fprintln(w, "Delay profile (first run)"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
