package tmdb

import "strings"

// ImageSize is a TMDB image size variant.
type ImageSize string

// Image sizes.
const (
	SizeW92      ImageSize = "w92"
	SizeW154     ImageSize = "w154"
	SizeW185     ImageSize = "w185"
	SizeW342     ImageSize = "w342"
	SizeW500     ImageSize = "w500"
	SizeW780     ImageSize = "w780"
	SizeOriginal ImageSize = "original"
)

// Default sizes for posters and backdrops.
const (
	DefaultPosterSize   = SizeW500
	DefaultBackdropSize = SizeOriginal
)

// ImageURL joins an image base URL, a size and a relative path.
// An empty path yields "".
func ImageURL(base string, size ImageSize, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + string(size) + path
}

// PosterURL resolves a poster path at the given size.
func (c *Client) PosterURL(path string, size ImageSize) string {
	return ImageURL(c.imageBaseURL, size, path)
}

// BackdropURL resolves a backdrop path at the given size.
func (c *Client) BackdropURL(path string, size ImageSize) string {
	return ImageURL(c.imageBaseURL, size, path)
}
