package tmdb

import (
	"context"
)

// Catalog defines the read operations used by the CLI and the HTTP API
type Catalog interface {
	// PopularMovies retrieves a page of popular movies
	PopularMovies(ctx context.Context, page int) (*MoviesResponse, error)

	// SearchMovies retrieves a page of movies matching a query
	SearchMovies(ctx context.Context, query string, page int) (*MoviesResponse, error)

	// TrendingMovies retrieves this week's trending movies
	TrendingMovies(ctx context.Context) (*MoviesResponse, error)

	// MovieDetails retrieves a single movie with credits and videos
	MovieDetails(ctx context.Context, id int64) (*MovieDetails, error)

	// FeaturedMovies assembles the hero slideshow list
	FeaturedMovies(ctx context.Context) ([]FeaturedMovie, error)
}

var _ Catalog = (*Client)(nil)
