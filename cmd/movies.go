package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviedeck/pagination"
	"github.com/s0up4200/moviedeck/settings"
	"github.com/s0up4200/moviedeck/tmdb"
)

var (
	// Command flags
	listPage     int
	searchQuery  string
	filterExpr   string
	preset       string
	showDetails  bool
	showOverview bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List popular movies or search results",
	Long: `List a page of popular movies, or of search results when --search is set.

Without --page or --search the last listing is shown again. A new search
starts from the first page.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page to show")
	listCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "search query (empty clears the search)")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the page")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.Flags().BoolVar(&showDetails, "details", false, "show rating and release date")
	listCmd.Flags().BoolVar(&showOverview, "overview", false, "show the overview")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	listing, err := resolveListing(cmd)
	if err != nil {
		return err
	}

	// Priority: command line filter > preset > default
	expression, name := filterExpr, preset
	switch {
	case expression != "":
		name = ""
	case name == "":
		expression = cfg.Filter.Default
	}
	selected, err := filters.Resolve(name, expression)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	logger.Info().
		Int("page", listing.Page).
		Str("search", listing.Query).
		Msg("Fetching movies")

	var movies *tmdb.MoviesResponse
	if listing.Query != "" {
		movies, err = tmdbClient.SearchMovies(ctx, listing.Query, listing.Page)
	} else {
		movies, err = tmdbClient.PopularMovies(ctx, listing.Page)
	}
	if err != nil {
		return err
	}

	results, err := filters.Apply(ctx, selected, movies.Results)
	if err != nil {
		return err
	}
	if selected != nil {
		logger.Debug().
			Str("filter", selected.Expression()).
			Int("matched", len(results)).
			Int("total", len(movies.Results)).
			Msg("Filter applied")
	}

	if listing.Query != "" {
		fmt.Printf("Search Results for %q\n", listing.Query)
	} else {
		fmt.Println("Popular Movies")
	}

	formatter := tmdb.NewConsoleFormatter()
	fmt.Print(formatter.FormatMovieList(results, tmdb.FormatOptions{
		ShowDetails:  showDetails,
		ShowOverview: showOverview,
	}))

	if movies.TotalPages > 1 {
		fmt.Println(formatPagination(pagination.New(listing.Page, movies.TotalPages)))
	}

	return nil
}

// resolveListing applies the --search and --page flags to the saved listing
// state and returns the listing to show
func resolveListing(cmd *cobra.Command) (settings.Listing, error) {
	listing := prefs.Listing()

	var err error
	if cmd.Flags().Changed("search") {
		if listing, err = prefs.ApplySearch(searchQuery); err != nil {
			return listing, err
		}
	}
	if cmd.Flags().Changed("page") {
		if listing, err = prefs.ApplyPage(listPage); err != nil {
			return listing, err
		}
	}
	return listing, nil
}

func formatPagination(w pagination.Window) string {
	var sb strings.Builder

	if w.HasPrevious {
		sb.WriteString("« ")
	}
	for i, p := range w.Pages {
		if i > 0 {
			sb.WriteString(" ")
		}
		if p.Current {
			fmt.Fprintf(&sb, "[%s]", p)
			continue
		}
		sb.WriteString(p.String())
	}
	if w.HasNext {
		sb.WriteString(" »")
	}

	fmt.Fprintf(&sb, "  (page %d of %d)", w.Current, w.Total)
	return sb.String()
}

// trendingCmd represents the trending command
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List movies trending this week",
	RunE: func(cmd *cobra.Command, args []string) error {
		movies, err := tmdbClient.TrendingMovies(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("Trending This Week")
		fmt.Print(tmdb.NewConsoleFormatter().FormatMovieList(movies.Results, tmdb.FormatOptions{
			ShowDetails:  showDetails,
			ShowOverview: showOverview,
		}))
		return nil
	},
}

func init() {
	trendingCmd.Flags().BoolVar(&showDetails, "details", false, "show rating and release date")
	trendingCmd.Flags().BoolVar(&showOverview, "overview", false, "show the overview")
}

// movieCmd represents the movie command
var movieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Show details, cast and trailer for a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid movie id %q", args[0])
		}

		details, err := tmdbClient.MovieDetails(cmd.Context(), id)
		if err != nil {
			if tmdb.IsNotFound(err) {
				return fmt.Errorf("movie %d not found", id)
			}
			return err
		}

		fmt.Print(tmdb.NewConsoleFormatter().FormatMovieDetails(details))
		return nil
	},
}

// featuredCmd represents the featured command
var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "Show the movies picked for the hero slideshow",
	RunE: func(cmd *cobra.Command, args []string) error {
		featured, err := tmdbClient.FeaturedMovies(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Print(tmdb.NewConsoleFormatter().FormatFeatured(featured))
		return nil
	},
}
