package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/moviedeck/server"
	"github.com/s0up4200/moviedeck/slideshow"
)

// heroCmd represents the hero command
var heroCmd = &cobra.Command{
	Use:   "hero",
	Short: "Run the hero slideshow in the terminal",
	Long: `Run the featured movie slideshow in the terminal.

Slides advance on their own: trailer slides after the trailer duration and
the rest after the still duration. Commands read from stdin:

  n      next slide
  p      previous slide
  g N    go to slide N (1-based)
  q      quit

Player commands that would be sent to the embedded trailers are logged at
debug level.`,
	RunE: runHero,
}

func runHero(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller := newController(slideshow.WithObserver(printSlide))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return controller.Run(ctx)
	})

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	g.Go(func() error {
		<-controller.Loaded()
		if controller.State().Fallback() {
			fmt.Println("No featured movies available.")
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					stop()
					return nil
				}
				quit, err := heroCommand(controller, line)
				if err != nil {
					fmt.Println(err)
				}
				if quit {
					stop()
					return nil
				}
			}
		}
	})

	return g.Wait()
}

// heroCommand applies one line of terminal input
func heroCommand(c *slideshow.Controller, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "n":
		c.Next()
	case "p":
		c.Previous()
	case "g":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: g N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("invalid slide number %q", fields[1])
		}
		if err := c.GoTo(n - 1); err != nil {
			return false, err
		}
	case "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (n, p, g N, q)", fields[0])
	}
	return false, nil
}

func printSlide(state slideshow.State) {
	slide, ok := state.CurrentSlide()
	if !ok {
		return
	}

	fmt.Printf("\n[%d/%d] %s", state.Current+1, len(state.Slides), slide.Title)
	if slide.HasTrailer() {
		fmt.Printf(" ▶ https://www.youtube.com/watch?v=%s", slide.Trailer.Key)
	}
	if state.ManualOverride {
		fmt.Print(" (manual)")
	}
	fmt.Println()
	if slide.Overview != "" {
		fmt.Printf("    %s\n", slide.Overview)
	}
}

// newController builds a slideshow over the TMDB client with the configured
// timings. Outbound player commands are logged unless opts sets a messenger.
func newController(opts ...slideshow.Option) *slideshow.Controller {
	messenger := slideshow.MessengerFunc(func(playerID string, c slideshow.Command) error {
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		logger.Debug().Str("player_id", playerID).RawJSON("command", data).Msg("Player command")
		return nil
	})

	base := []slideshow.Option{
		slideshow.WithLogger(logger.With().Str("component", "slideshow").Logger()),
		slideshow.WithMessenger(messenger),
		slideshow.WithDurations(cfg.Hero.TrailerDuration, cfg.Hero.StillDuration),
		slideshow.WithSettleDelay(cfg.Hero.SettleDelay),
		slideshow.WithVolume(cfg.Hero.Volume),
		slideshow.WithTrustedOrigin(cfg.Hero.TrustedOrigin),
	}
	return slideshow.New(tmdbClient, append(base, opts...)...)
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve the catalog, the hero slideshow and the user settings over HTTP.

The slideshow runs in the server process. Clients poll /api/hero, post the
queued player commands it returns to the trailer iframes and relay the
players' messages to /api/hero/messages.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The browser picks up player commands when it polls the hero state
	players := server.NewPlayerQueue(server.DefaultQueueLimit)
	controller := newController(slideshow.WithMessenger(players))
	srv := server.New(tmdbClient, controller, prefs, logger,
		server.WithFilters(filters),
		server.WithPlayerQueue(players),
		server.WithEmbedOrigin(cfg.Server.PublicURL),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return controller.Run(ctx)
	})
	g.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Server.Listen, cfg.Server.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
