package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultTimeout       = 30 * time.Second
	defaultRetryAttempts = 3
	defaultRetryDelay    = 300 * time.Millisecond
	defaultCacheSize     = 256
	defaultCacheTTL      = 5 * time.Minute
	defaultConcurrency   = 8
)

// Client represents a TMDB API client
type Client struct {
	baseURL       string
	apiKey        string
	language      string
	httpClient    *http.Client
	logger        zerolog.Logger
	retryAttempts uint
	retryDelay    time.Duration
	cacheSize     int
	cacheTTL      time.Duration
	cache         *expirable.LRU[string, []byte]
	concurrency   int
}

// NewClient creates a new TMDB client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: tmdb API key is required", ErrInvalidConfig)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrInvalidConfig, baseURL, err)
	}

	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        strings.TrimSpace(apiKey),
		httpClient:    &http.Client{Timeout: defaultTimeout},
		logger:        logger.With().Str("component", "tmdb").Logger(),
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
		cacheSize:     defaultCacheSize,
		cacheTTL:      defaultCacheTTL,
		concurrency:   defaultConcurrency,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.cacheTTL > 0 && client.cacheSize > 0 {
		client.cache = expirable.NewLRU[string, []byte](client.cacheSize, nil, client.cacheTTL)
	}

	return client, nil
}

// doRequest performs a GET request with authentication, retry and caching
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	if c.language != "" {
		query.Set("language", c.language)
	}

	// The cache key never carries the API key
	cacheKey := endpoint + "?" + query.Encode()
	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			c.logger.Trace().Str("endpoint", endpoint).Msg("Serving cached TMDB response")
			return body, nil
		}
	}

	query.Set("api_key", c.apiKey)
	requestURL := c.baseURL + endpoint + "?" + query.Encode()

	var body []byte
	err := retry.Do(
		func() error {
			var err error
			body, err = c.get(ctx, requestURL)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(shouldRetry),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug().
				Err(err).
				Uint("attempt", n+1).
				Str("endpoint", endpoint).
				Msg("Retrying TMDB request")
		}),
	)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(cacheKey, body)
	}
	return body, nil
}

// get issues a single HTTP GET
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(body, resp.Status),
		}
	}

	return body, nil
}

// getJSON fetches endpoint and decodes the body into v
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	body, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.retryable()
	}
	return true
}

// statusMessage extracts status_message from a TMDB error body
func statusMessage(body []byte, fallback string) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.StatusMessage != "" {
		return payload.StatusMessage
	}
	return fallback
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

// TestConnection verifies the API key against the configuration endpoint
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.doRequest(ctx, "/configuration", nil); err != nil {
		return fmt.Errorf("failed to connect to TMDB: %w", err)
	}
	return nil
}

// PopularMovies retrieves a page of currently popular movies
func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviesResponse, error) {
	resp, err := c.popular(ctx, page)
	if err != nil {
		return nil, fetchError("popular movies", err)
	}
	return resp, nil
}

func (c *Client) popular(ctx context.Context, page int) (*MoviesResponse, error) {
	var resp MoviesResponse
	if err := c.getJSON(ctx, "/movie/popular", pageParams(page), &resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("page", resp.Page).
		Int("count", len(resp.Results)).
		Int("total_pages", resp.TotalPages).
		Msg("Retrieved popular movies")
	return &resp, nil
}

// SearchMovies retrieves a page of movies matching query
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviesResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fetchError("search results", ErrEmptyQuery)
	}

	params := pageParams(page)
	params.Set("query", query)

	var resp MoviesResponse
	if err := c.getJSON(ctx, "/search/movie", params, &resp); err != nil {
		return nil, fetchError("search results", err)
	}

	c.logger.Debug().
		Str("query", query).
		Int("page", resp.Page).
		Int("total_results", resp.TotalResults).
		Msg("Searched movies")
	return &resp, nil
}

// TrendingMovies retrieves this week's trending movies
func (c *Client) TrendingMovies(ctx context.Context) (*MoviesResponse, error) {
	var resp MoviesResponse
	if err := c.getJSON(ctx, "/trending/movie/week", nil, &resp); err != nil {
		return nil, fetchError("trending movies", err)
	}
	return &resp, nil
}

// MovieDetails retrieves a movie with its credits and videos appended
func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	params := url.Values{"append_to_response": {"credits,videos"}}

	var details MovieDetails
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, fetchError("movie details", err)
	}
	return &details, nil
}

// MovieVideos retrieves the videos attached to a movie
func (c *Client) MovieVideos(ctx context.Context, id int64) ([]Video, error) {
	videos, err := c.movieVideos(ctx, id)
	if err != nil {
		return nil, fetchError("movie videos", err)
	}
	return videos, nil
}

func (c *Client) movieVideos(ctx context.Context, id int64) ([]Video, error) {
	var resp VideosResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
