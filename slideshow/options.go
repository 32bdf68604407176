package slideshow

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTrailerDuration is how long a slide with a trailer stays up
	DefaultTrailerDuration = 2 * time.Minute
	// DefaultStillDuration is how long a backdrop-only slide stays up
	DefaultStillDuration = 5 * time.Second
	// DefaultSettleDelay is the pause before the new player is unmuted
	DefaultSettleDelay = time.Second
	// DefaultVolume is the volume the visible player is set to
	DefaultVolume = 20
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMessenger sets where player commands are sent.
func WithMessenger(m Messenger) Option {
	return func(c *Controller) {
		if m != nil {
			c.messenger = m
		}
	}
}

// WithClock replaces the timer source.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithDurations sets the display time for trailer and backdrop slides.
func WithDurations(trailer, still time.Duration) Option {
	return func(c *Controller) {
		if trailer > 0 {
			c.trailerDuration = trailer
		}
		if still > 0 {
			c.stillDuration = still
		}
	}
}

// WithSettleDelay sets the delay before the visible player is unmuted. Zero
// unmutes immediately.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.settleDelay = max(d, 0)
	}
}

// WithVolume sets the volume of the visible player.
func WithVolume(volume int) Option {
	return func(c *Controller) {
		c.volume = min(max(volume, 0), 100)
	}
}

// WithTrustedOrigin overrides the accepted player origin.
func WithTrustedOrigin(origin string) Option {
	return func(c *Controller) {
		if origin != "" {
			c.trustedOrigin = origin
		}
	}
}

// WithObserver registers a callback invoked after every state change. It runs
// on the controller's loop and must not call back into the controller.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}
