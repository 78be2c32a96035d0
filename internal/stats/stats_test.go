package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/scribe/internal/typewriter"
)

type constSource float64

func (s constSource) Float64() float64 { return float64(s) }

func fixedModel() *typewriter.DelayModel {
	return typewriter.NewDelayModel(10*time.Millisecond, 10*time.Millisecond, constSource(0.5))
}

func TestSampleAndTotals(t *testing.T) {
	s := Sample(fixedModel(), "a b.", 2)
	if len(s.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(s.Runs))
	}
	want := []time.Duration{10 * time.Millisecond, 15 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond}
	for i, d := range s.Runs[1] {
		if d != want[i] {
			t.Fatalf("delay %d = %s, want %s", i, d, want[i])
		}
	}
	mean, lo, hi := s.Totals()
	if mean != 55*time.Millisecond || lo != mean || hi != mean {
		t.Fatalf("unexpected totals: %s %s %s", mean, lo, hi)
	}
}

func TestAggregate(t *testing.T) {
	aggs := Aggregate(Sample(fixedModel(), "a b.", 2))
	if len(aggs) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(aggs))
	}
	if aggs[0].Class != typewriter.ClassPlain || aggs[0].Count != 4 || aggs[0].Mean() != 10 {
		t.Fatalf("unexpected plain aggregate: %+v", aggs[0])
	}
	if aggs[1].Class != typewriter.ClassSpace || aggs[1].Mean() != 15 {
		t.Fatalf("unexpected space aggregate: %+v", aggs[1])
	}
	if aggs[2].Class != typewriter.ClassSentence || aggs[2].Min != 20*time.Millisecond || aggs[2].Max != 20*time.Millisecond {
		t.Fatalf("unexpected sentence aggregate: %+v", aggs[2])
	}
}

func TestRenderClassTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderClassTable(&buf, Aggregate(Sample(fixedModel(), "a b.", 1))); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Per-Class Delays", "plain", "1.50x", "2.00x"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderClassTable(&buf, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No delays sampled.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Sample(fixedModel(), "a b.", 3)); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Characters: 4", "Runs: 3", "Expected duration: 55ms", "Expected WPM: 872.73"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSparkline(&buf, Sample(fixedModel(), "ab.", 1), 80, 1, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[1] != "  @" {
		t.Fatalf("unexpected sparkline output: %q", buf.String())
	}
}

func TestSessionMetrics(t *testing.T) {
	wpm, cpm := SessionMetrics(300, 60000)
	if wpm != 60 || cpm != 300 {
		t.Fatalf("unexpected metrics: %f %f", wpm, cpm)
	}
	if wpm, cpm := SessionMetrics(10, 0); wpm != 0 || cpm != 0 {
		t.Fatalf("expected zero metrics for zero duration")
	}
}

func TestSparklineFlat(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestDownsample(t *testing.T) {
	got := Downsample([]float64{1, 2, 3, 4}, 2)
	if len(got) != 2 || math.Abs(got[0]-1.5) > 1e-9 || math.Abs(got[1]-3.5) > 1e-9 {
		t.Fatalf("unexpected downsample: %v", got)
	}
	if got := Downsample([]float64{1, 2}, 5); len(got) != 2 {
		t.Fatalf("expected values unchanged, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6}, 2)
	want := []float64{2, 3, 5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("unexpected moving average: %v", got)
		}
	}
}
