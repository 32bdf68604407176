package slideshow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/moviedeck/tmdb"
)

var (
	// ErrIndexOutOfRange is returned by GoTo for an index outside the slides
	ErrIndexOutOfRange = errors.New("slide index out of range")
	// ErrStopped is returned once the controller's Run has returned
	ErrStopped = errors.New("slideshow controller stopped")
	// ErrAlreadyRunning is returned when Run is called twice
	ErrAlreadyRunning = errors.New("slideshow controller already running")
)

// Source provides the featured movies shown in the slideshow
type Source interface {
	FeaturedMovies(ctx context.Context) ([]tmdb.FeaturedMovie, error)
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(ctx context.Context) ([]tmdb.FeaturedMovie, error)

// FeaturedMovies implements Source
func (f SourceFunc) FeaturedMovies(ctx context.Context) ([]tmdb.FeaturedMovie, error) {
	return f(ctx)
}

// Slide is a featured movie as shown in the slideshow. PlayerID is set for
// slides that embed a trailer player.
type Slide struct {
	tmdb.FeaturedMovie
	PlayerID string `json:"player_id,omitempty"`
}

// State is a snapshot of the controller
type State struct {
	Slides         []Slide `json:"slides"`
	Current        int     `json:"current"`
	ManualOverride bool    `json:"manual_override"`
}

// Fallback reports whether there is nothing to show and the static banner
// should be rendered instead
func (s State) Fallback() bool {
	return len(s.Slides) == 0
}

// CurrentSlide returns the visible slide, if any
func (s State) CurrentSlide() (Slide, bool) {
	if s.Current < 0 || s.Current >= len(s.Slides) {
		return Slide{}, false
	}
	return s.Slides[s.Current], true
}

// Controller drives the hero slideshow.
//
// All state is owned by the goroutine running Run. Timer callbacks, player
// messages and navigation calls are posted to it and applied one at a time,
// so the manual-override flag is the only arbitration between them.
type Controller struct {
	source          Source
	messenger       Messenger
	clock           Clock
	logger          zerolog.Logger
	trailerDuration time.Duration
	stillDuration   time.Duration
	settleDelay     time.Duration
	volume          int
	trustedOrigin   string
	observer        func(State)

	events  chan func()
	loaded  chan struct{}
	done    chan struct{}
	running atomic.Bool

	// Owned by the loop
	slides         []Slide
	current        int
	manualOverride bool
	timer          Timer
	timerGen       uint64
	settle         Timer
	slideGen       uint64
}

// New creates a controller. Nothing happens until Run is called; the
// navigation methods block until then.
func New(source Source, opts ...Option) *Controller {
	c := &Controller{
		source:          source,
		messenger:       nopMessenger{},
		clock:           realClock{},
		logger:          zerolog.Nop(),
		trailerDuration: DefaultTrailerDuration,
		stillDuration:   DefaultStillDuration,
		settleDelay:     DefaultSettleDelay,
		volume:          DefaultVolume,
		trustedOrigin:   TrustedOrigin,
		events:          make(chan func()),
		loaded:          make(chan struct{}),
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run loads the featured movies and processes events until ctx is cancelled.
// A failed or empty load leaves the controller in its fallback state. On
// return every pending timer is cancelled and later calls become no-ops.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.dispose()

	items, err := c.source.FeaturedMovies(ctx)
	if ctx.Err() != nil {
		close(c.loaded)
		return nil
	}
	c.load(items, err)
	close(c.loaded)

	for {
		select {
		case fn := <-c.events:
			fn()
		case <-ctx.Done():
			return nil
		}
	}
}

// Loaded is closed once the initial load has been applied
func (c *Controller) Loaded() <-chan struct{} {
	return c.loaded
}

// Done is closed once Run has returned
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Current returns the visible slide
func (c *Controller) Current() (Slide, bool) {
	return c.State().CurrentSlide()
}

// State returns a snapshot of the slideshow
func (c *Controller) State() State {
	var s State
	c.call(func() { s = c.snapshot() })
	return s
}

// Next moves to the following slide, wrapping around
func (c *Controller) Next() {
	c.call(func() { c.step(1) })
}

// Previous moves to the preceding slide, wrapping around
func (c *Controller) Previous() {
	c.call(func() { c.step(-1) })
}

// GoTo jumps to slide i
func (c *Controller) GoTo(i int) error {
	var err error
	if !c.call(func() { err = c.jump(i) }) {
		return ErrStopped
	}
	return err
}

// Deliver hands an inbound player message to the controller. Messages from
// an untrusted origin or with a malformed payload are dropped before they
// reach the loop.
func (c *Controller) Deliver(msg Message) {
	if msg.Origin != c.trustedOrigin {
		c.logger.Trace().Str("origin", msg.Origin).Msg("Dropping player message from untrusted origin")
		return
	}
	if !IsPlaybackEnded(msg.Data) {
		return
	}
	c.call(func() { c.playbackEnded(msg.PlayerID) })
}

// Listen delivers messages from ch until it is closed or ctx is done
func (c *Controller) Listen(ctx context.Context, ch <-chan Message) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.Deliver(msg)
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}
	}
}

// post hands fn to the loop without waiting for it to run
func (c *Controller) post(fn func()) bool {
	select {
	case c.events <- fn:
		return true
	case <-c.done:
		return false
	}
}

// call hands fn to the loop and waits until it has run
func (c *Controller) call(fn func()) bool {
	ran := make(chan struct{})
	if !c.post(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	<-ran
	return true
}

func (c *Controller) dispose() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	c.slides = nil
	c.current = 0
	c.manualOverride = false
	close(c.done)
}

func (c *Controller) load(items []tmdb.FeaturedMovie, err error) {
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to load featured movies, showing fallback banner")
		return
	}
	if len(items) == 0 {
		c.logger.Info().Msg("No featured movies, showing fallback banner")
		return
	}

	c.slides = make([]Slide, len(items))
	for i, item := range items {
		c.slides[i] = Slide{FeaturedMovie: item}
		if item.HasTrailer() {
			c.slides[i].PlayerID = uuid.NewString()
		}
	}
	c.current = 0

	c.logger.Debug().Int("slides", len(c.slides)).Msg("Slideshow loaded")

	c.syncPlayers()
	c.schedule()
	c.notify()
}

func (c *Controller) durationFor(s Slide) time.Duration {
	if s.HasTrailer() {
		return c.trailerDuration
	}
	return c.stillDuration
}

// schedule cancels the pending advance timer and starts one for the current slide
func (c *Controller) schedule() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerGen++
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(c.durationFor(c.slides[c.current]), func() {
		c.post(func() { c.timerFired(gen) })
	})
}

func (c *Controller) timerFired(gen uint64) {
	// A stale timer lost the race against a reschedule
	if gen != c.timerGen || len(c.slides) == 0 {
		return
	}
	c.timer = nil

	if !c.manualOverride {
		c.advance()
	}
	c.manualOverride = false
	c.schedule()
	c.notify()
}

func (c *Controller) playbackEnded(playerID string) {
	if len(c.slides) == 0 {
		return
	}

	current := c.slides[c.current]
	if current.PlayerID == "" || playerID != current.PlayerID {
		c.logger.Debug().Str("player_id", playerID).Msg("Ignoring playback end from hidden player")
		return
	}
	if c.manualOverride {
		return
	}

	c.advance()
	c.schedule()
	c.notify()
}

func (c *Controller) step(delta int) {
	n := len(c.slides)
	if n == 0 {
		return
	}
	c.manualOverride = true
	c.setCurrent(((c.current+delta)%n + n) % n)
	c.schedule()
	c.notify()
}

func (c *Controller) jump(i int) error {
	if i < 0 || i >= len(c.slides) {
		return fmt.Errorf("%w: %d (slides: %d)", ErrIndexOutOfRange, i, len(c.slides))
	}
	c.manualOverride = true
	c.setCurrent(i)
	c.schedule()
	c.notify()
	return nil
}

func (c *Controller) advance() {
	c.setCurrent((c.current + 1) % len(c.slides))
}

func (c *Controller) setCurrent(i int) {
	if i == c.current {
		return
	}
	c.current = i
	c.syncPlayers()
}

// syncPlayers mutes every hidden player and, after the settle delay, unmutes
// and subscribes to the visible one
func (c *Controller) syncPlayers() {
	current := c.slides[c.current]
	for _, s := range c.slides {
		if s.PlayerID != "" && s.PlayerID != current.PlayerID {
			c.send(s.PlayerID, MuteCommand())
		}
	}

	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	c.slideGen++
	gen := c.slideGen

	if c.settleDelay <= 0 {
		c.activatePlayer(gen)
		return
	}
	c.settle = c.clock.AfterFunc(c.settleDelay, func() {
		c.post(func() { c.activatePlayer(gen) })
	})
}

func (c *Controller) activatePlayer(gen uint64) {
	if gen != c.slideGen || len(c.slides) == 0 {
		return
	}
	c.settle = nil

	playerID := c.slides[c.current].PlayerID
	if playerID == "" {
		return
	}
	c.send(playerID, UnmuteCommand())
	c.send(playerID, SetVolumeCommand(c.volume))
	c.send(playerID, ListenCommand())
}

func (c *Controller) send(playerID string, cmd Command) {
	if err := c.messenger.Post(playerID, cmd); err != nil {
		c.logger.Debug().Err(err).Str("player_id", playerID).Str("func", cmd.Func).Msg("Failed to post player command")
	}
}

func (c *Controller) snapshot() State {
	return State{
		Slides:         append([]Slide(nil), c.slides...),
		Current:        c.current,
		ManualOverride: c.manualOverride,
	}
}

func (c *Controller) notify() {
	if c.observer != nil {
		c.observer(c.snapshot())
	}
}
