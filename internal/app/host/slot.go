// Package host provides the parent view that mounts a sample player.
package host

import (
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/samplebox/internal/app/playback"
	"github.com/osa030/samplebox/internal/domain/sample"
)

// Slot is the page-side owner of a sample player. It holds the open flag
// and the descriptor; the controller owns everything else.
type Slot struct {
	mu sync.Mutex

	open       bool
	descriptor sample.Descriptor

	controller *playback.Controller
}

// NewSlot creates a slot with a mounted, closed player.
func NewSlot(config playback.Config) *Slot {
	s := &Slot{}
	s.controller = playback.NewController(config, playback.WithOpenChange(s.handleOpenChange))
	return s
}

// Controller returns the mounted player.
func (s *Slot) Controller() *playback.Controller {
	return s.controller
}

// Show opens the player for d. Showing a different sample while open
// replaces the descriptor without restarting the session.
func (s *Slot) Show(d sample.Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.controller.SetOpen(true, d); err != nil {
		return err
	}
	s.open = true
	s.descriptor = d
	return nil
}

// Hide closes the player from the page side.
func (s *Slot) Hide() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	return s.controller.SetOpen(false, s.descriptor)
}

// IsOpen returns the page's open flag.
func (s *Slot) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Descriptor returns the last descriptor shown.
func (s *Slot) Descriptor() sample.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.descriptor
}

// Unmount removes the player from the page and releases its timer.
func (s *Slot) Unmount() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()

	s.controller.Shutdown()
}

// handleOpenChange honours the player's request to change the open flag.
func (s *Slot) handleOpenChange(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open == open {
		return
	}
	s.open = open
	zlog.Debug().Msgf("host: player requested open=%t", open)

	if err := s.controller.SetOpen(open, s.descriptor); err != nil {
		zlog.Warn().Msgf("host: failed to sync player: %v", err)
	}
}
