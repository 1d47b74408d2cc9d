package extract

import "strings"

// Shape is the layout of a provider response body.
type Shape int

const (
	ShapeDirect Shape = iota
	ShapePlaylist
	ShapeRepackaged
)

func (s Shape) String() string {
	switch s {
	case ShapeRepackaged:
		return "repackaged"
	case ShapePlaylist:
		return "playlist"
	default:
		return "direct"
	}
}

const (
	repackagerHost = "repackager.wixmp.com"
	masterPlaylist = "master.m3u8"

	// proxyDomain serves progressive files directly; its URLs are never fetched.
	proxyDomain = "tools.fast4speed.rsvp"
)

// shapes is evaluated in order. A body matching several markers takes the
// first shape listed.
var shapes = []struct {
	shape Shape
	match func(body string) bool
}{
	{ShapeRepackaged, func(body string) bool {
		return strings.Contains(body, repackagerHost)
	}},
	{ShapePlaylist, func(body string) bool {
		return strings.Contains(body, masterPlaylist) || strings.Contains(strings.ToLower(body), "hls")
	}},
}

// Classify returns the shape of a provider response body.
func Classify(body string) Shape {
	for _, s := range shapes {
		if s.match(body) {
			return s.shape
		}
	}
	return ShapeDirect
}

// IsProxyURL reports whether url points at the pass-through proxy domain.
func IsProxyURL(url string) bool {
	return strings.Contains(url, proxyDomain)
}
