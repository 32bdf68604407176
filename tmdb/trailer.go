package tmdb

// Video sites and types used for trailer selection
const (
	SiteYouTube = "YouTube"
	TypeTrailer = "Trailer"
	TypeTeaser  = "Teaser"
)

// SelectTrailer picks at most one trailer from a movie's videos.
//
// Priority: the first official YouTube "Trailer", then the first YouTube
// "Trailer" or "Teaser", otherwise nil. The input slice is never modified and
// the returned video is a copy.
func SelectTrailer(videos []Video) *Video {
	for _, v := range videos {
		if v.Site == SiteYouTube && v.Type == TypeTrailer && v.Official {
			return &v
		}
	}
	for _, v := range videos {
		if v.Site == SiteYouTube && (v.Type == TypeTrailer || v.Type == TypeTeaser) {
			return &v
		}
	}
	return nil
}
