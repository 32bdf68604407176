package tmdb

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	// FeaturedCandidates is how many popular movies are considered for the slideshow
	FeaturedCandidates = 8
	// MinTrailerSlides is the minimum number of trailer-bearing movies needed
	// before the list is filtered down to them
	MinTrailerSlides = 5
	// FallbackSlides is the prefix length returned when too few trailers exist
	FallbackSlides = 6
)

// FeaturedMovies assembles the hero slideshow list.
//
// The first FeaturedCandidates popular movies are fetched, their videos are
// looked up concurrently and a trailer is selected for each. A failed video
// lookup only makes that movie trailer-less.
func (c *Client) FeaturedMovies(ctx context.Context) ([]FeaturedMovie, error) {
	popular, err := c.popular(ctx, 1)
	if err != nil {
		return nil, fetchError("featured movies", err)
	}

	candidates := popular.Results
	if len(candidates) > FeaturedCandidates {
		candidates = candidates[:FeaturedCandidates]
	}

	// Each goroutine owns one index
	trailers := make([]*Video, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, movie := range candidates {
		g.Go(func() error {
			videos, err := c.movieVideos(gctx, movie.ID)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int64("movie_id", movie.ID).
					Str("movie", movie.Title).
					Msg("Failed to get movie videos")
				// Continue with the other movies
				return nil
			}
			trailers[i] = SelectTrailer(videos)
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fetchError("featured movies", err)
	}

	featured := AssembleFeatured(candidates, trailers)
	c.logger.Debug().
		Int("candidates", len(candidates)).
		Int("featured", len(featured)).
		Msg("Assembled featured movies")
	return featured, nil
}

// AssembleFeatured pairs movies with their trailers (trailers[i] belongs to
// movies[i], nil meaning none). When at least MinTrailerSlides movies carry a
// trailer only those are returned, in order; otherwise the first
// FallbackSlides movies are returned regardless of trailers.
func AssembleFeatured(movies []Movie, trailers []*Video) []FeaturedMovie {
	all := make([]FeaturedMovie, 0, len(movies))
	withTrailers := make([]FeaturedMovie, 0, len(movies))

	for i, movie := range movies {
		var trailer *Video
		if i < len(trailers) {
			trailer = trailers[i]
		}
		fm := newFeaturedMovie(movie, trailer)
		all = append(all, fm)
		if fm.HasTrailer() {
			withTrailers = append(withTrailers, fm)
		}
	}

	if len(withTrailers) >= MinTrailerSlides {
		return withTrailers
	}
	return all[:min(FallbackSlides, len(all))]
}
