package filter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/moviedeck/tmdb"
)

// generateTestMovies creates test movie data
func generateTestMovies(count int) []tmdb.Movie {
	genres := [][]int{
		{tmdb.GenreAction},
		{tmdb.GenreAction, tmdb.GenreDrama},
		{tmdb.GenreHorror, tmdb.GenreScienceFiction, tmdb.GenreThriller},
	}

	movies := make([]tmdb.Movie, count)
	for i := 0; i < count; i++ {
		movies[i] = tmdb.Movie{
			ID:               int64(i),
			Title:            fmt.Sprintf("Movie %d", i),
			ReleaseDate:      fmt.Sprintf("%d-06-15", 2020+(i%5)),
			VoteAverage:      5.0 + float64(i%5),
			VoteCount:        i * 10,
			Popularity:       float64(i % 100),
			GenreIDs:         genres[i%3],
			OriginalLanguage: []string{"en", "fr", "ja"}[i%3],
		}
	}

	return movies
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasGenre(28)`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `contains(Title, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown field",
			expression: `Rating > 5`,
			wantErr:    true,
		},
		{
			name:        "non-boolean result",
			expression:  `VoteAverage + 1`,
			wantErr:     true,
			errContains: "failed to compile",
		},
		{
			name:       "complex expression",
			expression: `hasGenre("Action") and Year > 2020 and VoteAverage >= 7.0`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)

			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, filter)
			assert.Equal(t, tt.expression, filter.Expression())
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	movie := tmdb.Movie{
		ID:               603,
		Title:            "The Matrix",
		OriginalTitle:    "The Matrix",
		ReleaseDate:      "1999-03-30",
		VoteAverage:      8.2,
		VoteCount:        24000,
		Popularity:       85.3,
		GenreIDs:         []int{tmdb.GenreAction, tmdb.GenreScienceFiction},
		OriginalLanguage: "en",
		PosterPath:       "/matrix.jpg",
	}

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{name: "genre by id", expression: `hasGenre(28)`, expected: true},
		{name: "genre by name", expression: `hasGenre("science fiction")`, expected: true},
		{name: "missing genre", expression: `hasGenre("Horror")`, expected: false},
		{name: "unknown genre name", expression: `hasGenre("Mumblecore")`, expected: false},
		{name: "genre membership", expression: `878 in GenreIDs`, expected: true},
		{name: "year comparison", expression: `Year < 2000`, expected: true},
		{name: "rating check", expression: `VoteAverage >= 8 and VoteCount > 1000`, expected: true},
		{name: "title contains", expression: `contains(Title, "matrix")`, expected: true},
		{name: "language", expression: `Language == "fr"`, expected: false},
		{name: "not adult", expression: `not Adult`, expected: true},
		{name: "artwork", expression: `HasPoster and not HasBackdrop`, expected: true},
		{name: "released after", expression: `releasedAfter(parseDate("1999-01-01"))`, expected: true},
		{name: "released before", expression: `releasedBefore(yearsAgo(10))`, expected: true},
		{name: "date comparison", expression: `ReleaseDate < daysAgo(30)`, expected: true},
		{name: "released", expression: `isUnreleased()`, expected: false},
		{name: "movie struct", expression: `Movie.ID == 603`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, filter.Evaluate(movie), "expression %q", tt.expression)
		})
	}
}

func TestFilterEvaluation_MissingReleaseDate(t *testing.T) {
	movie := tmdb.Movie{Title: "Untitled"}

	for expression, expected := range map[string]bool{
		`Year == 0`:                              true,
		`isUnreleased()`:                         true,
		`releasedAfter(parseDate("1900-01-01"))`: false,
		`daysSince(ReleaseDate) == 0`:            true,
	} {
		filter, err := CompileFilter(expression)
		require.NoError(t, err, expression)
		assert.Equal(t, expected, filter.Evaluate(movie), expression)
	}
}

func TestMatch_RuntimeError(t *testing.T) {
	filter, err := CompileFilter(`hasGenre(true)`)
	require.NoError(t, err)

	matched, err := filter.Match(tmdb.Movie{Title: "Heat"})
	require.Error(t, err)
	assert.False(t, matched)

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "Heat", evalErr.MovieTitle)

	assert.False(t, filter.Evaluate(tmdb.Movie{Title: "Heat"}))
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isClassic": func(year int) bool { return year > 0 && year < 1980 },
	}))

	filter, err := compiler.Compile(`isClassic(Year)`)
	require.NoError(t, err)
	assert.True(t, filter.Evaluate(tmdb.Movie{ReleaseDate: "1972-03-14"}))
	assert.False(t, filter.Evaluate(tmdb.Movie{ReleaseDate: "2010-07-16"}))
}

func TestConcurrentEvaluation(t *testing.T) {
	movies := generateTestMovies(1000)

	filter, err := CompileFilter(`hasGenre(28) and Year > 2021`)
	require.NoError(t, err)

	evaluator := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(50))
	matches, err := evaluator.Evaluate(context.Background(), filter, movies)
	require.NoError(t, err)

	// Same result and order as a sequential scan
	var expected []tmdb.Movie
	for _, movie := range movies {
		if filter.Evaluate(movie) {
			expected = append(expected, movie)
		}
	}
	require.NotEmpty(t, expected)
	assert.Equal(t, expected, matches)
}

func TestConcurrentEvaluation_Cancelled(t *testing.T) {
	filter, err := CompileFilter(`VoteAverage > 0`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evaluator := NewConcurrentEvaluator(WithWorkers(2), WithBatchSize(10))
	_, err = evaluator.Evaluate(ctx, filter, generateTestMovies(100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchEvaluation(t *testing.T) {
	movies := generateTestMovies(500)

	filters := map[string]string{
		"action":    `hasGenre("Action")`,
		"recent":    `Year >= 2023`,
		"highRated": `VoteAverage > 7.0`,
	}

	results, err := EvaluateFilters(context.Background(), filters, movies)
	require.NoError(t, err)
	require.Len(t, results, len(filters))

	for _, movie := range results["highRated"] {
		assert.Greater(t, movie.VoteAverage, 7.0)
	}
	for _, movie := range results["recent"] {
		assert.GreaterOrEqual(t, movie.Year(), 2023)
	}
}

func TestFilterManager(t *testing.T) {
	manager := NewManager()
	ctx := context.Background()

	filters := map[string]string{
		"action": `hasGenre(28)`,
		"recent": `Year > 2022`,
		"french": `Language == "fr"`,
	}
	require.NoError(t, manager.RegisterFilters(filters))
	assert.Equal(t, []string{"action", "french", "recent"}, manager.ListFilters())

	filter, exists := manager.GetFilter("action")
	require.True(t, exists)
	assert.NotNil(t, filter)

	movies := generateTestMovies(100)
	matches, err := manager.EvaluateFilter(ctx, "action", movies)
	require.NoError(t, err)
	assert.NotEmpty(t, matches)

	_, err = manager.EvaluateFilter(ctx, "missing", movies)
	assert.ErrorIs(t, err, ErrFilterNotFound)

	manager.UnregisterFilter("action")
	_, exists = manager.GetFilter("action")
	assert.False(t, exists)

	t.Run("bad filter registers nothing", func(t *testing.T) {
		err := manager.RegisterFilters(map[string]string{"ok": `Adult`, "bad": `Adult +`})
		require.Error(t, err)
		_, exists := manager.GetFilter("ok")
		assert.False(t, exists)
	})
}

func TestManagerResolve(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.RegisterFilter("acclaimed", `VoteAverage >= 8`))

	movies := []tmdb.Movie{
		{ID: 1, VoteAverage: 8.5},
		{ID: 2, VoteAverage: 6.1},
		{ID: 3, VoteAverage: 9.0},
	}
	ctx := context.Background()

	t.Run("preset", func(t *testing.T) {
		filter, err := manager.Resolve("acclaimed", "")
		require.NoError(t, err)
		matches, err := manager.Apply(ctx, filter, movies)
		require.NoError(t, err)
		assert.Equal(t, []tmdb.Movie{movies[0], movies[2]}, matches)
	})

	t.Run("expression", func(t *testing.T) {
		filter, err := manager.Resolve("", `VoteAverage < 7`)
		require.NoError(t, err)
		matches, err := manager.Apply(ctx, filter, movies)
		require.NoError(t, err)
		assert.Equal(t, []tmdb.Movie{movies[1]}, matches)
	})

	t.Run("no filter", func(t *testing.T) {
		filter, err := manager.Resolve("", " ")
		require.NoError(t, err)
		assert.Nil(t, filter)
		matches, err := manager.Apply(ctx, filter, movies)
		require.NoError(t, err)
		assert.Equal(t, movies, matches)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := manager.Resolve("nope", "")
		assert.ErrorIs(t, err, ErrFilterNotFound)
	})
}

func TestCacheEffectiveness(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))
	expression := `hasGenre(28) and Year > 2020`

	first, err := compiler.Compile(expression)
	require.NoError(t, err)

	second, err := compiler.Compile(expression)
	require.NoError(t, err)
	assert.Same(t, first, second)

	cachingCompiler, ok := compiler.(CachingCompiler)
	require.True(t, ok)
	assert.Equal(t, 1, cachingCompiler.Size())

	// Bounded by the configured size
	for _, e := range []string{`Adult`, `not Adult`, `Year > 1`} {
		_, err := compiler.Compile(e)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cachingCompiler.Size())

	cachingCompiler.Clear()
	assert.Equal(t, 0, cachingCompiler.Size())
}

func TestCompileWithoutCache(t *testing.T) {
	compiler := NewExprCompiler()
	cachingCompiler := compiler.(CachingCompiler)

	_, err := compiler.Compile(`Adult`)
	require.NoError(t, err)
	assert.Equal(t, 0, cachingCompiler.Size())
}

func TestReleaseDateParsing(t *testing.T) {
	filter, err := CompileFilter(`ReleaseDate == parseDate("2021-09-15")`)
	require.NoError(t, err)
	assert.True(t, filter.Evaluate(tmdb.Movie{ReleaseDate: "2021-09-15"}))
	assert.False(t, filter.Evaluate(tmdb.Movie{ReleaseDate: "2021-09-16"}))
}
