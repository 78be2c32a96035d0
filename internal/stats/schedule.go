// Package stats summarizes delay schedules produced by the typing engine.
package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/scribe/internal/typewriter"
)

// Schedule holds the delays drawn for every character over several runs.
type Schedule struct {
	Chars []rune
	Runs  [][]time.Duration
}

// Sample draws the delay of every character in text, runs times.
func Sample(model *typewriter.DelayModel, text string, runs int) Schedule {
	chars := []rune(text)
	if runs <= 0 {
		runs = 1
	}
	s := Schedule{Chars: chars, Runs: make([][]time.Duration, runs)}
	for r := 0; r < runs; r++ {
		delays := make([]time.Duration, len(chars))
		for i, ch := range chars {
			delays[i] = model.Delay(ch)
		}
		s.Runs[r] = delays
	}
	return s
}

// Totals returns the mean, minimum and maximum total duration over all runs.
func (s Schedule) Totals() (mean, lo, hi time.Duration) {
	if len(s.Runs) == 0 {
		return 0, 0, 0
	}
	var sum time.Duration
	for i, run := range s.Runs {
		var total time.Duration
		for _, d := range run {
			total += d
		}
		sum += total
		if i == 0 || total < lo {
			lo = total
		}
		if total > hi {
			hi = total
		}
	}
	return sum / time.Duration(len(s.Runs)), lo, hi
}

// ClassAggregate summarizes the delays drawn for one class.
type ClassAggregate struct {
	Class typewriter.CharClass
	Count int
	Sum   time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Mean returns the average delay in milliseconds.
func (a ClassAggregate) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count) / float64(time.Millisecond)
}

// Aggregate groups every drawn delay by character class. Classes that do not
// occur in the text are omitted; the result is ordered by class.
func Aggregate(s Schedule) []ClassAggregate {
	var byClass [typewriter.ClassClause + 1]ClassAggregate
	for _, run := range s.Runs {
		for i, d := range run {
			c := typewriter.ClassOf(s.Chars[i])
			agg := &byClass[c]
			if agg.Count == 0 || d < agg.Min {
				agg.Min = d
			}
			if d > agg.Max {
				agg.Max = d
			}
			agg.Class = c
			agg.Count++
			agg.Sum += d
		}
	}
	out := make([]ClassAggregate, 0, len(byClass))
	for _, agg := range byClass {
		if agg.Count > 0 {
			out = append(out, agg)
		}
	}
	return out
}

// RenderClassTable prints per-class delay aggregates. The ratio column is
// relative to the mean delay of plain characters when they occur.
func RenderClassTable(w io.Writer, aggs []ClassAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No delays sampled.")
		return err
	}
	base := 0.0
	for _, agg := range aggs {
		if agg.Class == typewriter.ClassPlain {
			base = agg.Mean()
		}
	}

	if _, err := fmt.Fprintln(w, "Per-Class Delays"); err != nil {
		return err
	}
	headers := []string{"Class", "Count", "Mean (ms)", "Min (ms)", "Max (ms)", "Ratio"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		ratio := "-"
		if base > 0 {
			ratio = fmt.Sprintf("%.2fx", agg.Mean()/base)
		}
		rows = append(rows, []string{
			agg.Class.String(),
			fmt.Sprintf("%d", agg.Count),
			fmt.Sprintf("%.1f", agg.Mean()),
			fmt.Sprintf("%d", agg.Min.Milliseconds()),
			fmt.Sprintf("%d", agg.Max.Milliseconds()),
			ratio,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
