// Package settings persists user preferences: the colour theme and the last
// listing page and search query.
package settings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Listing is the page and search query of the movie listing
type Listing struct {
	Page  int    `json:"page"`
	Query string `json:"query"`
}

// Manager owns the current settings and writes every change through to its
// store.
type Manager struct {
	mu       sync.RWMutex
	store    Store
	logger   zerolog.Logger
	settings Settings
}

// NewManager loads the saved settings from store
func NewManager(store Store, logger zerolog.Logger) (*Manager, error) {
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &Manager{
		store:    store,
		logger:   logger.With().Str("component", "settings").Logger(),
		settings: normalize(settings),
	}, nil
}

func normalize(s Settings) Settings {
	if s.Page < 1 {
		s.Page = 1
	}
	s.Search = strings.TrimSpace(s.Search)
	return s
}

// Get returns a copy of the current settings
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// DarkMode reports whether the dark theme is selected
func (m *Manager) DarkMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.DarkMode
}

// ToggleTheme flips the theme and returns the new value
func (m *Manager) ToggleTheme() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.settings
	next.DarkMode = !next.DarkMode
	if err := m.commit(next); err != nil {
		return m.settings.DarkMode, err
	}
	return next.DarkMode, nil
}

// SetTheme selects the dark (true) or light theme
func (m *Manager) SetTheme(dark bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.settings
	next.DarkMode = dark
	return m.commit(next)
}

// Listing returns the saved listing state
func (m *Manager) Listing() Listing {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Listing{Page: m.settings.Page, Query: m.settings.Search}
}

// ResolveListing picks the listing for a request from its "page" and
// "search" values. A present search replaces the saved one, an empty value
// clears it and a changed query starts from the first page. An absent search
// keeps the saved query. A valid page wins over the saved or reset page.
func (m *Manager) ResolveListing(values url.Values) Listing {
	listing := m.Listing()

	if values.Has("search") {
		query := strings.TrimSpace(values.Get("search"))
		if query != listing.Query {
			listing.Page = 1
		}
		listing.Query = query
	}
	if page, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil && page >= 1 {
		listing.Page = page
	}
	return listing
}

// ApplySearch records a new search query. The page resets to 1 unless the
// query is unchanged.
func (m *Manager) ApplySearch(query string) (Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query = strings.TrimSpace(query)
	next := m.settings
	if query != next.Search {
		next.Page = 1
	}
	next.Search = query

	if err := m.commit(next); err != nil {
		return Listing{Page: m.settings.Page, Query: m.settings.Search}, err
	}
	return Listing{Page: next.Page, Query: next.Search}, nil
}

// ApplyPage records a new listing page
func (m *Manager) ApplyPage(page int) (Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.settings
	next.Page = max(page, 1)

	if err := m.commit(next); err != nil {
		return Listing{Page: m.settings.Page, Query: m.settings.Search}, err
	}
	return Listing{Page: next.Page, Query: next.Search}, nil
}

// SaveListing records listing as the current listing state
func (m *Manager) SaveListing(listing Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.settings
	next.Page = max(listing.Page, 1)
	next.Search = strings.TrimSpace(listing.Query)
	if next == m.settings {
		return nil
	}
	return m.commit(next)
}

// commit saves next and makes it current. Callers hold the write lock.
func (m *Manager) commit(next Settings) error {
	if err := m.store.Save(next); err != nil {
		m.logger.Error().Err(err).Msg("Failed to save settings")
		return fmt.Errorf("failed to save settings: %w", err)
	}
	m.settings = next
	m.logger.Debug().
		Bool("dark_mode", next.DarkMode).
		Int("page", next.Page).
		Str("search", next.Search).
		Msg("Settings saved")
	return nil
}

// ListingQuery builds the query string for a listing URL: "search" when set
// and "page" only past the first page. Empty when neither applies.
func ListingQuery(page int, query string) string {
	var parts []string
	if query != "" {
		parts = append(parts, "search="+url.QueryEscape(query))
	}
	if page > 1 {
		parts = append(parts, "page="+strconv.Itoa(page))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}
