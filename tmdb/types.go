package tmdb

import "strconv"

// Movie represents a movie entry as returned by list endpoints
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Video            bool    `json:"video"`
}

// Year returns the release year, or 0 if the release date is missing
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// HasGenre checks if the movie is tagged with the given genre ID
func (m *Movie) HasGenre(id int) bool {
	for _, g := range m.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// MoviesResponse represents a paginated list of movies
type MoviesResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// HasMorePages checks if there are more pages to fetch
func (r *MoviesResponse) HasMorePages() bool {
	return r.Page < r.TotalPages
}

// Video represents a video attached to a movie (trailer, teaser, clip, ...)
type Video struct {
	ID          string `json:"id"`
	ISO6391     string `json:"iso_639_1"`
	ISO31661    string `json:"iso_3166_1"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// VideosResponse is the body of the /movie/{id}/videos endpoint
type VideosResponse struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

// Genre represents a TMDB genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany represents a company credited on a movie
type ProductionCompany struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// ProductionCountry represents a country of production
type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// SpokenLanguage represents a language spoken in a movie
type SpokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// CastMember represents an actor credit
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	CastID      int    `json:"cast_id"`
	CreditID    string `json:"credit_id"`
	Order       int    `json:"order"`
}

// CrewMember represents a crew credit
type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
	CreditID    string `json:"credit_id"`
}

// Credits groups cast and crew
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MovieDetails represents the full detail record of a movie, with credits and
// videos appended
type MovieDetails struct {
	ID                  int64               `json:"id"`
	Title               string              `json:"title"`
	Overview            string              `json:"overview"`
	PosterPath          string              `json:"poster_path"`
	BackdropPath        string              `json:"backdrop_path"`
	ReleaseDate         string              `json:"release_date"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`
	Popularity          float64             `json:"popularity"`
	Adult               bool                `json:"adult"`
	OriginalLanguage    string              `json:"original_language"`
	OriginalTitle       string              `json:"original_title"`
	Genres              []Genre             `json:"genres"`
	Runtime             *int                `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	Credits             Credits             `json:"credits"`
	Videos              *VideosResponse     `json:"videos,omitempty"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Homepage            string              `json:"homepage"`
	IMDBID              string              `json:"imdb_id"`
}

// TopCast returns at most n cast members in billing order
func (d *MovieDetails) TopCast(n int) []CastMember {
	if len(d.Credits.Cast) <= n {
		return d.Credits.Cast
	}
	return d.Credits.Cast[:n]
}

// Trailer picks the trailer among the appended videos
func (d *MovieDetails) Trailer() *Video {
	if d.Videos == nil {
		return nil
	}
	return SelectTrailer(d.Videos.Results)
}

// FeaturedMovie is a movie selected for the hero slideshow, optionally paired
// with a trailer
type FeaturedMovie struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Overview     string `json:"overview"`
	BackdropPath string `json:"backdrop_path"`
	Trailer      *Video `json:"trailer,omitempty"`
}

// HasTrailer checks if a trailer was found for the movie
func (f *FeaturedMovie) HasTrailer() bool {
	return f.Trailer != nil
}

func newFeaturedMovie(m Movie, trailer *Video) FeaturedMovie {
	return FeaturedMovie{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		BackdropPath: m.BackdropPath,
		Trailer:      trailer,
	}
}
