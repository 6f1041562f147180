// Package command maps text commands onto player operations.
package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/samplebox/internal/app/host"
	"github.com/osa030/samplebox/internal/app/playback"
	"github.com/osa030/samplebox/internal/domain/sample"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrQuit           = errors.New("quit")
)

// Command identifies a player operation.
type Command int

const (
	Open Command = iota
	Close
	Minimize
	Expand
	Dismiss
	Toggle
	Back
	Forward
	Speed
	Status
	Help
	Quit
)

// aliases maps every accepted word to its command.
var aliases = map[string]Command{
	"open":     Open,
	"close":    Close,
	"x":        Close,
	"min":      Minimize,
	"minimize": Minimize,
	"expand":   Expand,
	"max":      Expand,
	"dismiss":  Dismiss,
	"esc":      Dismiss,
	"toggle":   Toggle,
	"play":     Toggle,
	"pause":    Toggle,
	"p":        Toggle,
	"back":     Back,
	"b":        Back,
	"fwd":      Forward,
	"forward":  Forward,
	"f":        Forward,
	"speed":    Speed,
	"s":        Speed,
	"status":   Status,
	"help":     Help,
	"?":        Help,
	"quit":     Quit,
	"q":        Quit,
}

// Parse parses one input line.
func Parse(line string) (Command, error) {
	word := strings.ToLower(strings.TrimSpace(line))
	cmd, ok := aliases[word]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownCommand, "%q", word)
	}
	return cmd, nil
}

// Usage lists the accepted words.
func Usage() string {
	words := make([]string, 0, len(aliases))
	for w := range aliases {
		words = append(words, w)
	}
	sort.Strings(words)
	return "commands: " + strings.Join(words, " ")
}

// Dispatcher executes commands against a mounted player.
type Dispatcher struct {
	slot       *host.Slot
	descriptor sample.Descriptor
}

// NewDispatcher creates a dispatcher that opens d on the given slot.
func NewDispatcher(slot *host.Slot, d sample.Descriptor) *Dispatcher {
	return &Dispatcher{slot: slot, descriptor: d}
}

// Execute runs cmd and returns the status line to print.
// ErrQuit is returned for Quit.
func (d *Dispatcher) Execute(cmd Command) (string, error) {
	ctrl := d.slot.Controller()

	var err error
	switch cmd {
	case Open:
		err = d.slot.Show(d.descriptor)
	case Close:
		ctrl.Close()
	case Minimize:
		err = ctrl.Minimize()
	case Expand:
		err = ctrl.Expand()
	case Dismiss:
		err = ctrl.Dismiss()
	case Toggle:
		err = ctrl.TogglePlayback()
	case Back:
		err = ctrl.SkipBack()
	case Forward:
		err = ctrl.SkipForward()
	case Speed:
		err = ctrl.CycleSpeed()
	case Status:
	case Help:
		return Usage(), nil
	case Quit:
		return "", ErrQuit
	default:
		return "", errors.Wrapf(ErrUnknownCommand, "%d", cmd)
	}
	if err != nil {
		zlog.Debug().Msgf("command: %v", err)
		return "", err
	}

	return Render(ctrl.Snapshot()), nil
}

// Render formats a snapshot as a one-line status,
// e.g. "[full] playing 0:15 / 4:43 (5%) 1.25x".
func Render(s playback.Snapshot) string {
	if !s.Open {
		return "[closed]"
	}

	transport := "paused"
	if s.Playing {
		transport = "playing"
	}
	return fmt.Sprintf("[%s] %s %s / %s (%d%%) %s",
		s.View, transport,
		sample.FormatClock(s.Elapsed), sample.FormatClock(s.Total),
		int(s.Progress()*100), s.Speed)
}
