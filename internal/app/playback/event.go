package playback

// EventType represents a playback event type.
type EventType int

const (
	EventOpened            EventType = iota // Session created
	EventClosed                             // Session discarded
	EventViewChanged                        // Full <-> mini
	EventPlaybackChanged                    // Play/pause
	EventProgress                           // Tick advanced the position
	EventSeeked                             // Skip back/forward
	EventSpeedChanged                       // Playback rate cycled
	EventEnded                              // Position reached the end
	EventDescriptorChanged                  // Open session received a new descriptor
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventOpened:
		return "opened"
	case EventClosed:
		return "closed"
	case EventViewChanged:
		return "view_changed"
	case EventPlaybackChanged:
		return "playback_changed"
	case EventProgress:
		return "progress"
	case EventSeeked:
		return "seeked"
	case EventSpeedChanged:
		return "speed_changed"
	case EventEnded:
		return "ended"
	case EventDescriptorChanged:
		return "descriptor_changed"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type      EventType
	SessionID string   // Session the event belongs to
	State     Snapshot // State after the transition
}
