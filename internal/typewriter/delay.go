// Package typewriter injects text into the focused input one character at a time.
package typewriter

import (
	"math"
	"math/rand"
	"time"
)

const (
	spaceFactor    = 1.5
	sentenceFactor = 2.0
	clauseFactor   = 1.3
	thinkFactor    = 2.0
	thinkChance    = 0.10
)

// Source supplies uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a Source seeded with seed, or with the current time when
// seed is zero.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// DelayModel maps a character to the wait that follows its injection.
type DelayModel struct {
	Min time.Duration
	Max time.Duration
	rnd Source
}

// NewDelayModel returns a DelayModel drawing from rnd.
func NewDelayModel(minDelay, maxDelay time.Duration, rnd Source) *DelayModel {
	return &DelayModel{Min: minDelay, Max: maxDelay, rnd: rnd}
}

// Delay draws the delay for ch. Two values are taken from the source per call:
// one for the base delay and one for the occasional thinking pause.
func (m *DelayModel) Delay(ch rune) time.Duration {
	minMs := float64(m.Min) / float64(time.Millisecond)
	maxMs := float64(m.Max) / float64(time.Millisecond)
	ms := minMs + m.rnd.Float64()*(maxMs-minMs)
	ms *= CharFactor(ch)
	if m.rnd.Float64() < thinkChance {
		ms *= thinkFactor
	}
	return time.Duration(roundHalfUp(ms)) * time.Millisecond
}

// CharClass groups characters that share a delay multiplier.
type CharClass int

// Delay classes, one per multiplier.
const (
	ClassPlain CharClass = iota
	ClassSpace
	ClassSentence
	ClassClause
)

var (
	classNames   = [...]string{"plain", "space", ". ! ?", ", ; :"}
	classFactors = [...]float64{1, spaceFactor, sentenceFactor, clauseFactor}
)

func (c CharClass) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Factor returns the multiplier applied to the base delay.
func (c CharClass) Factor() float64 {
	if c >= 0 && int(c) < len(classFactors) {
		return classFactors[c]
	}
	return 1
}

// ClassOf returns the delay class of ch.
func ClassOf(ch rune) CharClass {
	switch ch {
	case ' ':
		return ClassSpace
	case '.', '!', '?':
		return ClassSentence
	case ',', ';', ':':
		return ClassClause
	default:
		return ClassPlain
	}
}

// CharFactor returns the multiplier applied to the base delay for ch.
func CharFactor(ch rune) float64 {
	return ClassOf(ch).Factor()
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(roundHalfUp(float64(done) / float64(total) * 100))
}
