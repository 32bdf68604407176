package filter

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"

	"github.com/s0up4200/moviedeck/tmdb"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the list size below which evaluation stays sequential
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator implements both Evaluator and BatchEvaluator interfaces
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate evaluates a single filter against all movies
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, movies []tmdb.Movie) ([]tmdb.Movie, error) {
	if len(movies) == 0 {
		return []tmdb.Movie{}, nil
	}

	// A result page is small; don't bother with concurrency
	if len(movies) < e.batchSize {
		return e.evaluateSequential(filter, movies), nil
	}

	return e.evaluateConcurrent(ctx, filter, movies)
}

// EvaluateBatch evaluates multiple filters against movies concurrently.
// Filters that fail are left out of the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, movies []tmdb.Movie) (map[string][]tmdb.Movie, error) {
	results := make(map[string][]tmdb.Movie, len(filters))
	if len(filters) == 0 || len(movies) == 0 {
		return results, nil
	}

	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	matches := make([][]tmdb.Movie, len(names))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(e.workerCount)
	for i, name := range names {
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}
			m, err := e.Evaluate(ctx, filters[name], movies)
			if err != nil {
				return nil
			}
			matches[i] = m
			return nil
		})
	}
	_ = p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, name := range names {
		if matches[i] != nil {
			results[name] = matches[i]
		}
	}
	return results, nil
}

// evaluateSequential evaluates a filter against all movies sequentially
func (e *ConcurrentEvaluator) evaluateSequential(filter CompiledFilter, movies []tmdb.Movie) []tmdb.Movie {
	matches := make([]tmdb.Movie, 0, len(movies)/4)
	for _, movie := range movies {
		if filter.Evaluate(movie) {
			matches = append(matches, movie)
		}
	}
	return matches
}

// evaluateConcurrent splits movies into chunks evaluated in parallel and
// joins the matches back in input order
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, movies []tmdb.Movie) ([]tmdb.Movie, error) {
	chunkSize := max(len(movies)/e.workerCount, e.batchSize)

	var chunks [][]tmdb.Movie
	for i := 0; i < len(movies); i += chunkSize {
		chunks = append(chunks, movies[i:min(i+chunkSize, len(movies))])
	}

	mapper := iter.Mapper[[]tmdb.Movie, []tmdb.Movie]{MaxGoroutines: e.workerCount}
	results := mapper.Map(chunks, func(chunk *[]tmdb.Movie) []tmdb.Movie {
		if ctx.Err() != nil {
			return nil
		}
		return e.evaluateSequential(filter, *chunk)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]tmdb.Movie, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
