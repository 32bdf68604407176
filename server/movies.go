package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
	"github.com/sourcegraph/conc"

	"github.com/s0up4200/moviedeck/filter"
	"github.com/s0up4200/moviedeck/pagination"
	"github.com/s0up4200/moviedeck/settings"
	"github.com/s0up4200/moviedeck/tmdb"
)

const listingErrorMessage = "Failed to load movies. Please try again."

// ListingResponse is a page of popular or search results
type ListingResponse struct {
	Title        string             `json:"title"`
	Query        string             `json:"query"`
	Page         int                `json:"page"`
	Location     string             `json:"location"`
	Filter       string             `json:"filter,omitempty"`
	Results      []tmdb.Movie       `json:"results"`
	TotalResults int                `json:"total_results"`
	Pagination   *pagination.Window `json:"pagination,omitempty"`
}

// HomeResponse is the landing page: the hero slides and the listing. The
// hero is hidden while searching.
type HomeResponse struct {
	ShowHero bool                 `json:"show_hero"`
	Featured []tmdb.FeaturedMovie `json:"featured"`
	Listing  ListingResponse      `json:"listing"`
	DarkMode bool                 `json:"dark_mode"`
}

// MovieResponse is a movie detail page
type MovieResponse struct {
	*tmdb.MovieDetails
	PosterURL   string            `json:"poster_url"`
	BackdropURL string            `json:"backdrop_url"`
	Trailer     *tmdb.Video       `json:"trailer,omitempty"`
	TopCast     []tmdb.CastMember `json:"top_cast"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	listing := s.settings.ResolveListing(r.URL.Query())
	ctx := r.Context()

	selected, err := s.resolveFilter(r)
	if err != nil {
		writeFetchError(w, r, err, "")
		return
	}

	var (
		movies   *tmdb.MoviesResponse
		listErr  error
		featured = []tmdb.FeaturedMovie{}
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		movies, listErr = s.fetchListing(ctx, listing)
	})
	if listing.Query == "" {
		wg.Go(func() {
			items, err := s.catalog.FeaturedMovies(ctx)
			if err != nil {
				// The hero falls back to the static banner
				hlog.FromRequest(r).Warn().Err(err).Msg("Failed to load featured movies")
				return
			}
			featured = items
		})
	}
	wg.Wait()

	if listErr != nil {
		writeFetchError(w, r, listErr, listingErrorMessage)
		return
	}

	resp, err := s.buildListing(ctx, listing, movies, selected)
	if err != nil {
		writeFetchError(w, r, err, listingErrorMessage)
		return
	}
	s.rememberListing(r, listing)

	writeJSON(w, http.StatusOK, HomeResponse{
		ShowHero: listing.Query == "",
		Featured: featured,
		Listing:  resp,
		DarkMode: s.settings.DarkMode(),
	})
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	listing := s.settings.ResolveListing(r.URL.Query())
	ctx := r.Context()

	selected, err := s.resolveFilter(r)
	if err != nil {
		writeFetchError(w, r, err, "")
		return
	}

	movies, err := s.fetchListing(ctx, listing)
	if err != nil {
		writeFetchError(w, r, err, listingErrorMessage)
		return
	}

	resp, err := s.buildListing(ctx, listing, movies, selected)
	if err != nil {
		writeFetchError(w, r, err, listingErrorMessage)
		return
	}
	s.rememberListing(r, listing)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	movies, err := s.catalog.TrendingMovies(r.Context())
	if err != nil {
		writeFetchError(w, r, err, "Failed to load trending movies.")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	details, err := s.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		writeFetchError(w, r, err, "Failed to load movie details.")
		return
	}

	writeJSON(w, http.StatusOK, MovieResponse{
		MovieDetails: details,
		PosterURL:    tmdb.ImageURL(details.PosterPath, "w500"),
		BackdropURL:  tmdb.BackdropURL(details.BackdropPath, "original"),
		Trailer:      details.Trailer(),
		TopCast:      details.TopCast(6),
	})
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	featured, err := s.catalog.FeaturedMovies(r.Context())
	if err != nil {
		writeFetchError(w, r, err, "Failed to load featured movies.")
		return
	}
	writeJSON(w, http.StatusOK, featured)
}

func (s *Server) fetchListing(ctx context.Context, listing settings.Listing) (*tmdb.MoviesResponse, error) {
	if listing.Query != "" {
		return s.catalog.SearchMovies(ctx, listing.Query, listing.Page)
	}
	return s.catalog.PopularMovies(ctx, listing.Page)
}

// resolveFilter reads the filter and preset query parameters. Without a
// filter manager both are ignored.
func (s *Server) resolveFilter(r *http.Request) (filter.CompiledFilter, error) {
	if s.filters == nil {
		return nil, nil
	}
	q := r.URL.Query()
	return s.filters.Resolve(q.Get("preset"), q.Get("filter"))
}

func (s *Server) buildListing(ctx context.Context, listing settings.Listing, movies *tmdb.MoviesResponse, selected filter.CompiledFilter) (ListingResponse, error) {
	results := movies.Results
	if results == nil {
		results = []tmdb.Movie{}
	}

	resp := ListingResponse{
		Title:        "Popular Movies",
		Query:        listing.Query,
		Page:         listing.Page,
		Location:     "/" + settings.ListingQuery(listing.Page, listing.Query),
		Results:      results,
		TotalResults: movies.TotalResults,
	}
	if listing.Query != "" {
		resp.Title = fmt.Sprintf("Search Results for %q", listing.Query)
	}

	if selected != nil {
		filtered, err := s.filters.Apply(ctx, selected, results)
		if err != nil {
			return ListingResponse{}, err
		}
		resp.Results = filtered
		resp.Filter = selected.Expression()
	}

	if movies.TotalPages > 1 {
		window := pagination.New(listing.Page, movies.TotalPages)
		resp.Pagination = &window
	}

	return resp, nil
}

func (s *Server) rememberListing(r *http.Request, listing settings.Listing) {
	if err := s.settings.SaveListing(listing); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed to save listing state")
	}
}
