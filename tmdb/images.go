package tmdb

// ImageBaseURL is the TMDB image CDN root
const ImageBaseURL = "https://image.tmdb.org/t/p"

const (
	posterPlaceholder   = "/placeholder.svg?height=750&width=500"
	backdropPlaceholder = "/placeholder.svg?height=720&width=1280"
)

// ImageURL builds a poster/profile image URL. Size defaults to w500; an empty
// path yields a local placeholder.
func ImageURL(path, size string) string {
	if path == "" {
		return posterPlaceholder
	}
	if size == "" {
		size = "w500"
	}
	return ImageBaseURL + "/" + size + path
}

// BackdropURL builds a backdrop image URL. Size defaults to w1280.
func BackdropURL(path, size string) string {
	if path == "" {
		return backdropPlaceholder
	}
	if size == "" {
		size = "w1280"
	}
	return ImageBaseURL + "/" + size + path
}
