// Package server exposes the catalog, the hero slideshow and the user
// settings over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/s0up4200/moviedeck/filter"
	"github.com/s0up4200/moviedeck/settings"
	"github.com/s0up4200/moviedeck/slideshow"
	"github.com/s0up4200/moviedeck/tmdb"
)

// Hero is the slideshow surface the API drives
type Hero interface {
	State() slideshow.State
	Next()
	Previous()
	GoTo(i int) error
	Deliver(msg slideshow.Message)
}

var _ Hero = (*slideshow.Controller)(nil)

// Server serves the HTTP API
type Server struct {
	catalog  tmdb.Catalog
	hero     Hero
	settings *settings.Manager
	filters  *filter.Manager
	players  *PlayerQueue
	origin   string
	logger   zerolog.Logger
	router   *mux.Router
}

// Option configures a Server
type Option func(*Server)

// WithFilters enables the filter and preset query parameters on listings
func WithFilters(m *filter.Manager) Option {
	return func(s *Server) {
		s.filters = m
	}
}

// WithPlayerQueue exposes the queued player commands on the hero endpoints.
// The same queue must be the controller's messenger.
func WithPlayerQueue(q *PlayerQueue) Option {
	return func(s *Server) {
		s.players = q
	}
}

// WithEmbedOrigin sets the origin passed to embedded trailer players
func WithEmbedOrigin(origin string) Option {
	return func(s *Server) {
		s.origin = origin
	}
}

// New creates a server
func New(catalog tmdb.Catalog, hero Hero, prefs *settings.Manager, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		catalog:  catalog,
		hero:     hero,
		settings: prefs,
		logger:   logger.With().Str("component", "server").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Listing
	api.HandleFunc("/home", s.handleHome).Methods(http.MethodGet)
	api.HandleFunc("/movies", s.handleMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/trending", s.handleTrending).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id}", s.handleMovie).Methods(http.MethodGet)
	api.HandleFunc("/featured", s.handleFeatured).Methods(http.MethodGet)

	// Hero slideshow
	api.HandleFunc("/hero", s.handleHero).Methods(http.MethodGet)
	api.HandleFunc("/hero/next", s.handleHeroNext).Methods(http.MethodPost)
	api.HandleFunc("/hero/previous", s.handleHeroPrevious).Methods(http.MethodPost)
	api.HandleFunc("/hero/goto/{index}", s.handleHeroGoTo).Methods(http.MethodPost)
	api.HandleFunc("/hero/messages", s.handleHeroMessage).Methods(http.MethodPost)

	// Settings
	api.HandleFunc("/settings", s.handleSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings/theme", s.handleSetTheme).Methods(http.MethodPut)
	api.HandleFunc("/settings/theme/toggle", s.handleToggleTheme).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	// Logging middleware
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request")
	}))

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// within shutdownTimeout
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
