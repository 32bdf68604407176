// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
//
// The client covers the endpoints a movie discovery front end needs: popular
// and search listings, weekly trending, movie details with credits and videos,
// and per-movie videos. On top of those it assembles the featured list for the
// hero slideshow.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		tmdb.DefaultBaseURL,
//		os.Getenv("TMDB_API_KEY"),
//		logger,
//		tmdb.WithTimeout(10*time.Second),
//		tmdb.WithCache(256, 5*time.Minute),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	popular, err := client.PopularMovies(ctx, 1)
//
// # Error Handling
//
// Every call returns a *FetchError naming the operation. It unwraps to the
// cause, which is an *APIError for non-2xx responses, ErrDecode for bodies
// that could not be decoded, or a transport error:
//
//	if tmdb.IsNotFound(err) {
//		// unknown movie
//	}
//
// Requests that fail with a network error, 429 or 5xx are retried with
// exponential backoff. Successful responses are cached for a short TTL.
package tmdb
