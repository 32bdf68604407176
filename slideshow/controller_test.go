package slideshow

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/moviedeck/tmdb"
)

const endedPayload = `{"event":"video-state-change","info":0}`

// fakeClock records timers and fires them on demand
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// scheduled returns how many timers were ever created
func (c *fakeClock) scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// pending returns the timers with duration d that have neither fired nor been stopped
func (c *fakeClock) pending(d time.Duration) []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if t.d == d && !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the single pending timer with duration d
func (c *fakeClock) fire(t *testing.T, d time.Duration) {
	t.Helper()
	pending := c.pending(d)
	require.Len(t, pending, 1, "expected exactly one pending %s timer", d)

	tm := pending[0]
	c.mu.Lock()
	tm.fired = true
	c.mu.Unlock()
	tm.f()
}

// recordingMessenger captures posted player commands
type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentCommand
}

type sentCommand struct {
	playerID string
	cmd      Command
}

func (m *recordingMessenger) Post(playerID string, cmd Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentCommand{playerID: playerID, cmd: cmd})
	return nil
}

func (m *recordingMessenger) take() []sentCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sent
	m.sent = nil
	return out
}

const (
	trailerDur = 2 * time.Minute
	stillDur   = 5 * time.Second
	settleDur  = time.Second
)

var (
	movieA = tmdb.FeaturedMovie{ID: 1, Title: "A", Trailer: &tmdb.Video{Key: "a", Site: tmdb.SiteYouTube, Type: tmdb.TypeTrailer}}
	movieB = tmdb.FeaturedMovie{ID: 2, Title: "B", BackdropPath: "/b.jpg"}
	movieC = tmdb.FeaturedMovie{ID: 3, Title: "C", Trailer: &tmdb.Video{Key: "c", Site: tmdb.SiteYouTube, Type: tmdb.TypeTeaser}}
)

func staticSource(items []tmdb.FeaturedMovie, err error) Source {
	return SourceFunc(func(ctx context.Context) ([]tmdb.FeaturedMovie, error) {
		return items, err
	})
}

// start runs a controller with immediate player activation unless opts say otherwise
func start(t *testing.T, source Source, opts ...Option) (*Controller, *fakeClock) {
	t.Helper()

	clock := &fakeClock{}
	opts = append([]Option{
		WithClock(clock),
		WithDurations(trailerDur, stillDur),
		WithSettleDelay(0),
	}, opts...)
	ctrl := New(source, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	go ctrl.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-ctrl.Done()
	})

	<-ctrl.Loaded()
	return ctrl, clock
}

func TestController_EmptyFetch(t *testing.T) {
	tests := []struct {
		name   string
		source Source
	}{
		{name: "no movies", source: staticSource(nil, nil)},
		{name: "fetch failure", source: staticSource(nil, errors.New("boom"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, clock := start(t, tt.source)

			state := ctrl.State()
			assert.True(t, state.Fallback())
			_, ok := ctrl.Current()
			assert.False(t, ok)

			// Navigation is a guarded no-op
			ctrl.Next()
			ctrl.Previous()
			assert.ErrorIs(t, ctrl.GoTo(0), ErrIndexOutOfRange)
			ctrl.Deliver(Message{Origin: TrustedOrigin, Data: endedPayload})

			assert.Equal(t, 0, clock.scheduled())
			assert.False(t, ctrl.State().ManualOverride)
		})
	}
}

func TestController_Load(t *testing.T) {
	ctrl, clock := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil))

	state := ctrl.State()
	require.Len(t, state.Slides, 3)
	assert.Equal(t, 0, state.Current)
	assert.NotEmpty(t, state.Slides[0].PlayerID)
	assert.Empty(t, state.Slides[1].PlayerID)
	assert.NotEmpty(t, state.Slides[2].PlayerID)
	assert.NotEqual(t, state.Slides[0].PlayerID, state.Slides[2].PlayerID)

	// Slide 0 has a trailer so the long timer is armed
	assert.Len(t, clock.pending(trailerDur), 1)
	assert.Empty(t, clock.pending(stillDur))
}

func TestController_TimerAdvance(t *testing.T) {
	ctrl, clock := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil))

	clock.fire(t, trailerDur)
	assert.Equal(t, 1, ctrl.State().Current)

	// B has no trailer: short timer
	assert.Len(t, clock.pending(stillDur), 1)
	clock.fire(t, stillDur)
	assert.Equal(t, 2, ctrl.State().Current)

	// Wraps around
	clock.fire(t, trailerDur)
	assert.Equal(t, 0, ctrl.State().Current)
}

func TestController_StaleSignalIgnored(t *testing.T) {
	ctrl, clock := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil))
	playerA := ctrl.State().Slides[0].PlayerID

	clock.fire(t, trailerDur)
	require.Equal(t, 1, ctrl.State().Current)

	// A finished playing, but B is visible now
	ctrl.Deliver(Message{Origin: TrustedOrigin, PlayerID: playerA, Data: endedPayload})
	assert.Equal(t, 1, ctrl.State().Current)
	assert.Len(t, clock.pending(stillDur), 1)
}

func TestController_PlaybackEnded(t *testing.T) {
	ctrl, clock := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil))
	playerA := ctrl.State().Slides[0].PlayerID

	tests := []struct {
		name string
		msg  Message
	}{
		{name: "untrusted origin", msg: Message{Origin: "https://evil.example", PlayerID: playerA, Data: endedPayload}},
		{name: "malformed json", msg: Message{Origin: TrustedOrigin, PlayerID: playerA, Data: `{"event":`}},
		{name: "playing state", msg: Message{Origin: TrustedOrigin, PlayerID: playerA, Data: `{"event":"video-state-change","info":1}`}},
		{name: "unknown player", msg: Message{Origin: TrustedOrigin, PlayerID: "other", Data: endedPayload}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl.Deliver(tt.msg)
			assert.Equal(t, 0, ctrl.State().Current)
		})
	}

	ctrl.Deliver(Message{Origin: TrustedOrigin, PlayerID: playerA, Data: endedPayload})
	assert.Equal(t, 1, ctrl.State().Current)

	// Advancing cancelled the trailer timer and armed the still timer
	assert.Empty(t, clock.pending(trailerDur))
	assert.Len(t, clock.pending(stillDur), 1)
}

func TestController_ManualOverrideIsOneShot(t *testing.T) {
	ctrl, clock := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil))

	ctrl.Next()
	state := ctrl.State()
	assert.Equal(t, 1, state.Current)
	assert.True(t, state.ManualOverride)

	// The manual action cancelled A's timer and armed B's
	assert.Empty(t, clock.pending(trailerDur))

	// First tick after the manual action does not advance
	clock.fire(t, stillDur)
	state = ctrl.State()
	assert.Equal(t, 1, state.Current)
	assert.False(t, state.ManualOverride)

	// The following one does
	clock.fire(t, stillDur)
	assert.Equal(t, 2, ctrl.State().Current)
}

func TestController_PlaybackEndedDuringOverride(t *testing.T) {
	ctrl, _ := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil))
	playerC := ctrl.State().Slides[2].PlayerID

	require.NoError(t, ctrl.GoTo(2))
	ctrl.Deliver(Message{Origin: TrustedOrigin, PlayerID: playerC, Data: endedPayload})

	state := ctrl.State()
	assert.Equal(t, 2, state.Current)
	assert.True(t, state.ManualOverride)
}

func TestController_RoundTrip(t *testing.T) {
	items := []tmdb.FeaturedMovie{movieA, movieB, movieC, {ID: 4}, {ID: 5}}
	ctrl, _ := start(t, staticSource(items, nil))

	for startIdx := range items {
		require.NoError(t, ctrl.GoTo(startIdx))

		ctrl.Next()
		ctrl.Previous()
		assert.Equal(t, startIdx, ctrl.State().Current, "next then previous from %d", startIdx)

		ctrl.Previous()
		ctrl.Next()
		assert.Equal(t, startIdx, ctrl.State().Current, "previous then next from %d", startIdx)
	}
}

func TestController_Previous_Wraps(t *testing.T) {
	ctrl, _ := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil))

	ctrl.Previous()
	assert.Equal(t, 2, ctrl.State().Current)
}

func TestController_GoTo(t *testing.T) {
	ctrl, clock := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil))

	tests := []struct {
		name    string
		index   int
		wantErr bool
	}{
		{name: "valid", index: 1},
		{name: "last", index: 2},
		{name: "negative", index: -1, wantErr: true},
		{name: "past end", index: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ctrl.State().Current
			err := ctrl.GoTo(tt.index)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIndexOutOfRange)
				assert.Equal(t, before, ctrl.State().Current)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.index, ctrl.State().Current)
		})
	}

	// Only one advance timer is ever pending
	assert.Len(t, append(clock.pending(trailerDur), clock.pending(stillDur)...), 1)
}

func TestController_SingleSlide(t *testing.T) {
	ctrl, clock := start(t, staticSource([]tmdb.FeaturedMovie{movieB}, nil))

	clock.fire(t, stillDur)
	assert.Equal(t, 0, ctrl.State().Current)
	assert.Len(t, clock.pending(stillDur), 1)

	ctrl.Next()
	ctrl.Previous()
	state := ctrl.State()
	assert.Equal(t, 0, state.Current)
	assert.True(t, state.ManualOverride)
	assert.Len(t, clock.pending(stillDur), 1)
}

func TestController_IndexAlwaysInRange(t *testing.T) {
	items := []tmdb.FeaturedMovie{movieA, movieB, movieC, {ID: 4}}
	ctrl, clock := start(t, staticSource(items, nil))
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		switch rng.Intn(5) {
		case 0:
			ctrl.Next()
		case 1:
			ctrl.Previous()
		case 2:
			_ = ctrl.GoTo(rng.Intn(len(items)+2) - 1)
		case 3:
			state := ctrl.State()
			slide, _ := state.CurrentSlide()
			ctrl.Deliver(Message{Origin: TrustedOrigin, PlayerID: slide.PlayerID, Data: endedPayload})
		case 4:
			slide, ok := ctrl.Current()
			require.True(t, ok)
			d := stillDur
			if slide.HasTrailer() {
				d = trailerDur
			}
			clock.fire(t, d)
		}

		state := ctrl.State()
		require.GreaterOrEqual(t, state.Current, 0)
		require.Less(t, state.Current, len(items))
	}
}

func TestController_PlayerSync(t *testing.T) {
	messenger := &recordingMessenger{}
	ctrl, clock := start(t,
		staticSource([]tmdb.FeaturedMovie{movieA, movieB, movieC}, nil),
		WithMessenger(messenger),
		WithSettleDelay(settleDur),
		WithVolume(20),
	)
	state := ctrl.State()
	playerA, playerC := state.Slides[0].PlayerID, state.Slides[2].PlayerID

	// On load C is muted at once; A is activated after the settle delay
	assert.Equal(t, []sentCommand{{playerC, MuteCommand()}}, messenger.take())
	clock.fire(t, settleDur)
	ctrl.State()
	assert.Equal(t, []sentCommand{
		{playerA, UnmuteCommand()},
		{playerA, SetVolumeCommand(20)},
		{playerA, ListenCommand()},
	}, messenger.take())

	// Switching to B mutes both trailers and has nothing to unmute
	ctrl.Next()
	assert.ElementsMatch(t, []sentCommand{{playerA, MuteCommand()}, {playerC, MuteCommand()}}, messenger.take())
	clock.fire(t, settleDur)
	ctrl.State()
	assert.Empty(t, messenger.take())

	// A quick second change cancels the first settle
	require.NoError(t, ctrl.GoTo(0))
	require.NoError(t, ctrl.GoTo(2))
	messenger.take()
	assert.Len(t, clock.pending(settleDur), 1)
	clock.fire(t, settleDur)
	ctrl.State()
	assert.Equal(t, []sentCommand{
		{playerC, UnmuteCommand()},
		{playerC, SetVolumeCommand(20)},
		{playerC, ListenCommand()},
	}, messenger.take())
}

func TestController_Observer(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	ctrl, _ := start(t,
		staticSource([]tmdb.FeaturedMovie{movieA, movieB}, nil),
		WithObserver(func(s State) {
			mu.Lock()
			seen = append(seen, s.Current)
			mu.Unlock()
		}),
	)

	ctrl.Next()
	ctrl.Next()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 0}, seen)
}

func TestController_Dispose(t *testing.T) {
	clock := &fakeClock{}
	ctrl := New(staticSource([]tmdb.FeaturedMovie{movieA, movieB}, nil),
		WithClock(clock), WithDurations(trailerDur, stillDur), WithSettleDelay(settleDur))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ctrl.Run(ctx) }()
	<-ctrl.Loaded()

	cancel()
	require.NoError(t, <-errCh)

	// Every timer was cancelled
	assert.Empty(t, clock.pending(trailerDur))
	assert.Empty(t, clock.pending(settleDur))

	// Calls after disposal return instead of blocking
	ctrl.Next()
	assert.ErrorIs(t, ctrl.GoTo(0), ErrStopped)
	assert.True(t, ctrl.State().Fallback())

	assert.ErrorIs(t, ctrl.Run(context.Background()), ErrAlreadyRunning)
}

func TestController_Listen(t *testing.T) {
	ctrl, _ := start(t, staticSource([]tmdb.FeaturedMovie{movieA, movieB}, nil))
	playerA := ctrl.State().Slides[0].PlayerID

	ch := make(chan Message, 2)
	ch <- Message{Origin: "https://evil.example", PlayerID: playerA, Data: endedPayload}
	ch <- Message{Origin: TrustedOrigin, PlayerID: playerA, Data: endedPayload}
	close(ch)

	ctrl.Listen(context.Background(), ch)
	assert.Equal(t, 1, ctrl.State().Current)
}
