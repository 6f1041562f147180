package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpeed_Next(t *testing.T) {
	tests := []struct {
		from Speed
		want Speed
	}{
		{0.5, 0.75},
		{0.75, 1},
		{1, 1.25},
		{1.25, 1.5},
		{1.5, 2},
		{2, 0.5},
		{3, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Next())
		})
	}
}

func TestSpeed_TickInterval(t *testing.T) {
	assert.Equal(t, time.Second, Speed(1).TickInterval())
	assert.Equal(t, 500*time.Millisecond, Speed(2).TickInterval())
	assert.Equal(t, 2*time.Second, Speed(0.5).TickInterval())
	assert.Equal(t, 800*time.Millisecond, Speed(1.25).TickInterval())
	assert.Equal(t, time.Second, Speed(0).TickInterval())
}

func TestSpeed_String(t *testing.T) {
	assert.Equal(t, "1x", Speed(1).String())
	assert.Equal(t, "0.75x", Speed(0.75).String())
	assert.Equal(t, "1.25x", Speed(1.25).String())
}

func TestViewMode_String(t *testing.T) {
	assert.Equal(t, "full", ViewFull.String())
	assert.Equal(t, "mini", ViewMini.String())
	assert.Equal(t, "unknown", ViewMode(7).String())
}

func TestSnapshot_Progress(t *testing.T) {
	assert.Zero(t, Snapshot{}.Progress())
	assert.Zero(t, Snapshot{Open: true, Elapsed: 10 * time.Second}.Progress())
	assert.InDelta(t, 0.25, Snapshot{Open: true, Elapsed: 25 * time.Second, Total: 100 * time.Second}.Progress(), 1e-9)
	assert.InDelta(t, 1.0, Snapshot{Open: true, Elapsed: 100 * time.Second, Total: 100 * time.Second}.Progress(), 1e-9)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "opened", EventOpened.String())
	assert.Equal(t, "ended", EventEnded.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
