package tmdb

import (
	"fmt"
	"strings"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails  bool
	ShowOverview bool
}

// ConsoleFormatter provides console output formatting for movies
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatMovieList formats a list of movies for console display
func (f *ConsoleFormatter) FormatMovieList(movies []Movie, options FormatOptions) string {
	if len(movies) == 0 {
		return "No movies found"
	}

	var sb strings.Builder

	sb.WriteString("\nMovie")
	if len(movies) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(movies))

	for i, movie := range movies {
		isLast := i == len(movies)-1
		f.formatMovie(&sb, movie, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatMovie formats a single movie entry
func (f *ConsoleFormatter) formatMovie(sb *strings.Builder, movie Movie, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s", prefix, movie.Title)
	if year := movie.Year(); year > 0 {
		fmt.Fprintf(sb, " (%d)", year)
	}
	sb.WriteString("\n")

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if options.ShowDetails {
		fmt.Fprintf(sb, "%sID: %d | Rating: %.1f (%d votes)\n", indent, movie.ID, movie.VoteAverage, movie.VoteCount)
		if movie.ReleaseDate != "" {
			fmt.Fprintf(sb, "%sReleased: %s\n", indent, movie.ReleaseDate)
		}
	}

	if options.ShowOverview && movie.Overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, truncate(movie.Overview, 120))
	}
}

// FormatMovieDetails formats a movie detail record
func (f *ConsoleFormatter) FormatMovieDetails(details *MovieDetails) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s", details.Title)
	if len(details.ReleaseDate) >= 4 {
		fmt.Fprintf(&sb, " (%s)", details.ReleaseDate[:4])
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("━", 50))
	sb.WriteString("\n")

	if details.Tagline != "" {
		fmt.Fprintf(&sb, "%s\n\n", details.Tagline)
	}

	var facts []string
	facts = append(facts, fmt.Sprintf("Rating: %.1f (%d votes)", details.VoteAverage, details.VoteCount))
	if details.Runtime != nil && *details.Runtime > 0 {
		facts = append(facts, fmt.Sprintf("Runtime: %dh %dm", *details.Runtime/60, *details.Runtime%60))
	}
	if details.Status != "" {
		facts = append(facts, "Status: "+details.Status)
	}
	sb.WriteString(strings.Join(facts, " | "))
	sb.WriteString("\n")

	if len(details.Genres) > 0 {
		names := make([]string, 0, len(details.Genres))
		for _, g := range details.Genres {
			names = append(names, g.Name)
		}
		fmt.Fprintf(&sb, "Genres: %s\n", strings.Join(names, ", "))
	}

	if details.Overview != "" {
		fmt.Fprintf(&sb, "\n%s\n", details.Overview)
	}

	if cast := details.TopCast(6); len(cast) > 0 {
		sb.WriteString("\nCast:\n")
		for i, actor := range cast {
			prefix := "├"
			if i == len(cast)-1 {
				prefix = "╰"
			}
			fmt.Fprintf(&sb, "%s── %s", prefix, actor.Name)
			if actor.Character != "" {
				fmt.Fprintf(&sb, " as %s", actor.Character)
			}
			sb.WriteString("\n")
		}
	}

	if companies := details.ProductionCompanies; len(companies) > 0 {
		names := make([]string, 0, 4)
		for _, c := range companies[:min(4, len(companies))] {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&sb, "\nProduction: %s\n", strings.Join(names, ", "))
	}

	if details.Budget > 0 || details.Revenue > 0 {
		fmt.Fprintf(&sb, "Budget: $%d | Revenue: $%d\n", details.Budget, details.Revenue)
	}

	if trailer := details.Trailer(); trailer != nil {
		fmt.Fprintf(&sb, "Trailer: https://www.youtube.com/watch?v=%s\n", trailer.Key)
	}
	fmt.Fprintf(&sb, "Backdrop: %s\n", BackdropURL(details.BackdropPath, ""))

	return sb.String()
}

// FormatFeatured formats the featured slideshow list
func (f *ConsoleFormatter) FormatFeatured(featured []FeaturedMovie) string {
	if len(featured) == 0 {
		return "No featured movies"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nFeatured movies (%d):\n\n", len(featured))

	for i, movie := range featured {
		prefix := "├"
		if i == len(featured)-1 {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %s", prefix, movie.Title)
		if movie.HasTrailer() {
			fmt.Fprintf(&sb, " [TRAILER: %s]", movie.Trailer.Key)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
