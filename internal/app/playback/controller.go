package playback

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/samplebox/internal/domain/sample"
)

// Errors
var (
	ErrNoSession = errors.New("no open session")
	ErrShutdown  = errors.New("controller is shut down")
)

const (
	defaultSkipStep    = 15 * time.Second
	defaultEventBuffer = 32
)

// Config holds controller configuration.
type Config struct {
	SkipStep     time.Duration // Skip back/forward amount, truncated to whole seconds
	RestartAtEnd bool          // Resuming at the end restarts from 0 instead of being ignored
	EventBuffer  int           // Capacity of the event channel
}

// Option configures a Controller.
type Option func(*Controller)

// WithOpenChange registers the callback invoked when the controller itself
// wants the parent to change the open state (explicit close).
func WithOpenChange(fn func(open bool)) Option {
	return func(c *Controller) {
		c.onOpenChange = fn
	}
}

// session is the live state of one open player.
type session struct {
	id         string
	descriptor sample.Descriptor
	view       ViewMode
	playing    bool
	elapsed    int // seconds
	total      int // seconds
	speed      Speed
}

// tickKey is the set of values the tick process depends on.
type tickKey struct {
	playing bool
	elapsed int
	total   int
	speed   Speed
}

// tickTimer is the single running tick process.
type tickTimer struct {
	key    tickKey
	gen    uint64
	cancel context.CancelFunc
}

// Controller manages one sample player: its session, view mode and the
// simulated elapsed-time clock.
type Controller struct {
	mu sync.Mutex

	session *session

	// Tick process
	tick    *tickTimer
	tickGen uint64
	wg      sync.WaitGroup

	// Configuration
	config       Config
	onOpenChange func(open bool)

	// Events
	eventCh chan Event

	// Context
	ctx      context.Context
	cancel   context.CancelFunc
	shutdown bool
}

// NewController creates a closed controller.
func NewController(config Config, opts ...Option) *Controller {
	config.SkipStep = config.SkipStep.Truncate(time.Second)
	if config.SkipStep <= 0 {
		config.SkipStep = defaultSkipStep
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = defaultEventBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		config:  config,
		eventCh: make(chan Event, config.EventBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events returns the event channel. It is closed by Shutdown.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Open creates a session for d and starts playing it.
// If a session is already open only its descriptor is updated; autoplay
// happens once per session.
func (c *Controller) Open(d sample.Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ErrShutdown
	}

	if c.session != nil {
		c.updateDescriptorLocked(d)
		return nil
	}

	total := max(int(d.TotalDuration()/time.Second), 0)
	c.session = &session{
		id:         uuid.New().String(),
		descriptor: d,
		view:       ViewFull,
		total:      total,
		speed:      DefaultSpeed,
		// A zero-length sample is already at its end.
		playing: total > 0,
	}

	zlog.Debug().Msgf("playback: session opened: id=%s title=%q total=%ds",
		c.session.id, d.Title, total)

	c.sendEventLocked(EventOpened)
	c.syncTickLocked()
	return nil
}

// SetOpen applies the parent's open prop. Closing this way does not call
// back into the parent.
func (c *Controller) SetOpen(open bool, d sample.Descriptor) error {
	if open {
		return c.Open(d)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ErrShutdown
	}
	c.closeLocked()
	return nil
}

// Close stops playback, discards the session and asks the parent to close.
// Calling Close on a closed controller does nothing.
func (c *Controller) Close() {
	c.mu.Lock()
	closed := c.closeLocked()
	notify := c.onOpenChange
	c.mu.Unlock()

	// Called outside the lock so the parent may call back in.
	if closed && notify != nil {
		notify(false)
	}
}

// Minimize collapses the session to the mini-bar. Transport is untouched.
func (c *Controller) Minimize() error {
	return c.setView(ViewMini)
}

// Expand restores the full view.
func (c *Controller) Expand() error {
	return c.setView(ViewFull)
}

// Dismiss handles an implicit exit from the full view (outside click,
// escape). It minimizes; it never closes the session.
func (c *Controller) Dismiss() error {
	return c.setView(ViewMini)
}

// TogglePlayback flips between playing and paused.
// Resuming at the end of the sample is ignored unless RestartAtEnd is set,
// in which case playback restarts from the beginning.
func (c *Controller) TogglePlayback() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.sessionLocked()
	if err != nil {
		return err
	}

	if s.playing {
		s.playing = false
	} else {
		if s.elapsed >= s.total {
			if !c.config.RestartAtEnd || s.total == 0 {
				zlog.Debug().Msgf("playback: resume ignored at end of sample: id=%s", s.id)
				return nil
			}
			s.elapsed = 0
			c.sendEventLocked(EventSeeked)
		}
		s.playing = true
	}

	c.sendEventLocked(EventPlaybackChanged)
	c.syncTickLocked()
	return nil
}

// SkipBack moves the position back by the configured step.
func (c *Controller) SkipBack() error {
	return c.skip(-int(c.config.SkipStep / time.Second))
}

// SkipForward moves the position forward by the configured step.
func (c *Controller) SkipForward() error {
	return c.skip(int(c.config.SkipStep / time.Second))
}

// CycleSpeed advances to the next playback rate.
func (c *Controller) CycleSpeed() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.sessionLocked()
	if err != nil {
		return err
	}

	s.speed = s.speed.Next()
	c.sendEventLocked(EventSpeedChanged)
	c.syncTickLocked()
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Shutdown unmounts the controller: the session is discarded, the tick
// process is cancelled and waited for, and the event channel is closed.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return
	}
	c.closeLocked()
	c.shutdown = true
	c.cancel()
	c.mu.Unlock()

	// Tick goroutines take the lock when they fire; wait outside it.
	c.wg.Wait()

	c.mu.Lock()
	close(c.eventCh)
	c.mu.Unlock()
}

func (c *Controller) setView(v ViewMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.sessionLocked()
	if err != nil {
		return err
	}
	if s.view == v {
		return nil
	}

	s.view = v
	zlog.Debug().Msgf("playback: view changed: id=%s view=%s", s.id, v)
	c.sendEventLocked(EventViewChanged)
	return nil
}

func (c *Controller) skip(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.sessionLocked()
	if err != nil {
		return err
	}

	pos := min(max(s.elapsed+delta, 0), s.total)
	if pos == s.elapsed {
		return nil
	}
	s.elapsed = pos
	c.sendEventLocked(EventSeeked)

	if s.elapsed >= s.total {
		c.endLocked()
	}
	c.syncTickLocked()
	return nil
}

// updateDescriptorLocked swaps the descriptor of the open session, keeping
// the position within the new length.
// Must be called with lock held.
func (c *Controller) updateDescriptorLocked(d sample.Descriptor) {
	s := c.session
	if s.descriptor == d {
		return
	}

	s.descriptor = d
	s.total = max(int(d.TotalDuration()/time.Second), 0)
	if s.elapsed > s.total {
		s.elapsed = s.total
	}
	c.sendEventLocked(EventDescriptorChanged)

	if s.playing && s.elapsed >= s.total {
		c.endLocked()
	}
	c.syncTickLocked()
}

// closeLocked discards the session. Returns false if nothing was open.
// Must be called with lock held.
func (c *Controller) closeLocked() bool {
	c.stopTickLocked()

	s := c.session
	if s == nil {
		return false
	}

	// Transport is reset before the session goes away.
	s.playing = false
	s.elapsed = 0
	id := s.id
	c.session = nil

	zlog.Debug().Msgf("playback: session closed: id=%s", id)
	c.sendEvent(Event{Type: EventClosed, SessionID: id, State: c.snapshotLocked()})
	return true
}

// endLocked stops transport at the end of the sample.
// Must be called with lock held.
func (c *Controller) endLocked() {
	s := c.session
	wasPlaying := s.playing
	s.playing = false
	zlog.Debug().Msgf("playback: end of sample reached: id=%s", s.id)
	if wasPlaying {
		c.sendEventLocked(EventPlaybackChanged)
	}
	c.sendEventLocked(EventEnded)
}

// sessionLocked returns the open session.
// Must be called with lock held.
func (c *Controller) sessionLocked() (*session, error) {
	if c.shutdown {
		return nil, ErrShutdown
	}
	if c.session == nil {
		return nil, ErrNoSession
	}
	return c.session, nil
}

// snapshotLocked copies the current state.
// Must be called with lock held.
func (c *Controller) snapshotLocked() Snapshot {
	s := c.session
	if s == nil {
		return Snapshot{Speed: DefaultSpeed}
	}
	return Snapshot{
		Open:       true,
		SessionID:  s.id,
		View:       s.view,
		Playing:    s.playing,
		Elapsed:    time.Duration(s.elapsed) * time.Second,
		Total:      time.Duration(s.total) * time.Second,
		Speed:      s.speed,
		Descriptor: s.descriptor,
	}
}

// syncTickLocked makes the tick process match the session: running iff the
// session is playing and not at its end, and restarted whenever one of its
// inputs changed.
// Must be called with lock held.
func (c *Controller) syncTickLocked() {
	s := c.session
	if s == nil || c.shutdown || !s.playing || s.elapsed >= s.total {
		c.stopTickLocked()
		return
	}

	key := tickKey{playing: s.playing, elapsed: s.elapsed, total: s.total, speed: s.speed}
	if c.tick != nil && c.tick.key == key {
		return
	}

	c.stopTickLocked()
	c.startTickLocked(key)
}

// startTickLocked schedules one tick after key.speed's interval.
// Must be called with lock held.
func (c *Controller) startTickLocked(key tickKey) {
	c.tickGen++
	gen := c.tickGen

	ctx, cancel := context.WithCancel(c.ctx)
	c.tick = &tickTimer{key: key, gen: gen, cancel: cancel}

	interval := key.speed.TickInterval()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		timer := time.NewTimer(interval)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
			c.onTick(gen)
		}
	}()
}

// stopTickLocked cancels the running tick process, if any.
// Must be called with lock held.
func (c *Controller) stopTickLocked() {
	if c.tick == nil {
		return
	}
	c.tick.cancel()
	c.tick = nil
}

// onTick advances the position by one second.
func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A timer cancelled after firing but before taking the lock is stale.
	if c.tick == nil || c.tick.gen != gen {
		return
	}
	c.tick.cancel()
	c.tick = nil

	s := c.session
	if s == nil || !s.playing || s.elapsed >= s.total {
		return
	}

	s.elapsed++
	c.sendEventLocked(EventProgress)

	if s.elapsed >= s.total {
		c.endLocked()
	}
	c.syncTickLocked()
}

// sendEventLocked sends an event for the open session.
// Must be called with lock held.
func (c *Controller) sendEventLocked(t EventType) {
	snap := c.snapshotLocked()
	c.sendEvent(Event{Type: t, SessionID: snap.SessionID, State: snap})
}

// sendEvent sends an event without blocking.
func (c *Controller) sendEvent(e Event) {
	select {
	case c.eventCh <- e:
		// Successfully sent
	case <-c.ctx.Done():
		// Shut down, don't send
	default:
		// Channel full, drop event
	}
}
