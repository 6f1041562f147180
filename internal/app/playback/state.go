// Package playback provides the sample playback session controller.
package playback

import (
	"strconv"
	"time"

	"github.com/osa030/samplebox/internal/domain/sample"
)

// ViewMode represents how an open session is presented.
type ViewMode int

const (
	ViewFull ViewMode = iota // Full overlay
	ViewMini                 // Docked mini-bar
)

// String returns the string representation of the view mode.
func (v ViewMode) String() string {
	switch v {
	case ViewFull:
		return "full"
	case ViewMini:
		return "mini"
	default:
		return "unknown"
	}
}

// Speed is a playback-rate multiplier.
type Speed float64

// Speeds is the fixed, cyclic set of playback rates.
var Speeds = []Speed{0.5, 0.75, 1, 1.25, 1.5, 2}

// DefaultSpeed is the rate every new session starts at.
const DefaultSpeed Speed = 1

// Next returns the following speed in Speeds, wrapping to the first.
// An unknown speed restarts the cycle.
func (s Speed) Next() Speed {
	for i, v := range Speeds {
		if v == s {
			return Speeds[(i+1)%len(Speeds)]
		}
	}
	return Speeds[0]
}

// TickInterval returns the wall-clock time one simulated second takes.
func (s Speed) TickInterval() time.Duration {
	if s <= 0 {
		s = DefaultSpeed
	}
	return time.Duration(float64(time.Second) / float64(s))
}

// String renders the speed the way the speed control labels it, e.g. "1.25x".
func (s Speed) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64) + "x"
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Open       bool
	SessionID  string
	View       ViewMode // Meaningful only when Open
	Playing    bool
	Elapsed    time.Duration // Whole seconds
	Total      time.Duration // Whole seconds
	Speed      Speed
	Descriptor sample.Descriptor
}

// Progress returns elapsed/total, or 0 for a zero-length sample.
func (s Snapshot) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Elapsed) / float64(s.Total)
}

// AtEnd reports whether the position has reached the end of the sample.
func (s Snapshot) AtEnd() bool {
	return s.Open && s.Elapsed >= s.Total
}
