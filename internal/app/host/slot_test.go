package host

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/samplebox/internal/app/playback"
	"github.com/osa030/samplebox/internal/domain/sample"
)

var lanterns = sample.Descriptor{
	CoverImage: "/covers/lanterns.jpg",
	Title:      "Lanterns at Low Tide",
	Author:     "Ines Varga",
	Narrator:   "Tom Hale",
	Duration:   "4:43",
}

func TestSlot_ShowAndHide(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := NewSlot(playback.Config{})
		defer s.Unmount()

		require.NoError(t, s.Show(lanterns))
		assert.True(t, s.IsOpen())
		assert.True(t, s.Controller().Snapshot().Playing)
		assert.Equal(t, lanterns, s.Descriptor())

		time.Sleep(3*time.Second + 100*time.Millisecond)
		require.NoError(t, s.Hide())
		assert.False(t, s.IsOpen())
		assert.False(t, s.Controller().Snapshot().Open)

		require.NoError(t, s.Show(lanterns))
		assert.Equal(t, time.Duration(0), s.Controller().Snapshot().Elapsed)
	})
}

func TestSlot_ExplicitCloseUpdatesOpenFlag(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := NewSlot(playback.Config{})
		defer s.Unmount()

		require.NoError(t, s.Show(lanterns))
		s.Controller().Close()

		assert.False(t, s.IsOpen())
		assert.False(t, s.Controller().Snapshot().Open)
	})
}

func TestSlot_DismissKeepsSlotOpen(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := NewSlot(playback.Config{})
		defer s.Unmount()

		require.NoError(t, s.Show(lanterns))
		require.NoError(t, s.Controller().Dismiss())

		assert.True(t, s.IsOpen())
		snap := s.Controller().Snapshot()
		assert.Equal(t, playback.ViewMini, snap.View)
		assert.True(t, snap.Playing)
	})
}

func TestSlot_ShowWhileOpenUpdatesDescriptor(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := NewSlot(playback.Config{})
		defer s.Unmount()

		require.NoError(t, s.Show(lanterns))
		id := s.Controller().Snapshot().SessionID

		other := lanterns
		other.Duration = "10:00"
		require.NoError(t, s.Show(other))

		snap := s.Controller().Snapshot()
		assert.Equal(t, id, snap.SessionID)
		assert.Equal(t, 10*time.Minute, snap.Total)
	})
}

func TestSlot_UnmountStopsPlayer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := NewSlot(playback.Config{})
		require.NoError(t, s.Show(lanterns))

		s.Unmount()
		assert.False(t, s.IsOpen())
		assert.ErrorIs(t, s.Show(lanterns), playback.ErrShutdown)
	})
}
