package tmdb

import "strings"

// TMDB movie genre ids
const (
	GenreAction         = 28
	GenreAdventure      = 12
	GenreAnimation      = 16
	GenreComedy         = 35
	GenreCrime          = 80
	GenreDocumentary    = 99
	GenreDrama          = 18
	GenreFamily         = 10751
	GenreFantasy        = 14
	GenreHistory        = 36
	GenreHorror         = 27
	GenreMusic          = 10402
	GenreMystery        = 9648
	GenreRomance        = 10749
	GenreScienceFiction = 878
	GenreTVMovie        = 10770
	GenreThriller       = 53
	GenreWar            = 10752
	GenreWestern        = 37
)

var genreNames = map[int]string{
	GenreAction:         "Action",
	GenreAdventure:      "Adventure",
	GenreAnimation:      "Animation",
	GenreComedy:         "Comedy",
	GenreCrime:          "Crime",
	GenreDocumentary:    "Documentary",
	GenreDrama:          "Drama",
	GenreFamily:         "Family",
	GenreFantasy:        "Fantasy",
	GenreHistory:        "History",
	GenreHorror:         "Horror",
	GenreMusic:          "Music",
	GenreMystery:        "Mystery",
	GenreRomance:        "Romance",
	GenreScienceFiction: "Science Fiction",
	GenreTVMovie:        "TV Movie",
	GenreThriller:       "Thriller",
	GenreWar:            "War",
	GenreWestern:        "Western",
}

// GenreName returns the English name of a genre id
func GenreName(id int) (string, bool) {
	name, ok := genreNames[id]
	return name, ok
}

// GenreID looks a genre up by name, ignoring case
func GenreID(name string) (int, bool) {
	for id, n := range genreNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return id, true
		}
	}
	return 0, false
}
