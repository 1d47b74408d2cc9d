package extract

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const maxLineSize = 1 << 20

var resolutionRe = regexp.MustCompile(`RESOLUTION=(\d+)x(\d+)`)

// Variant is one rendition listed in an HLS master playlist.
type Variant struct {
	URL    string
	Width  int
	Height int
}

func (v Variant) Quality() string {
	return fmt.Sprintf("%dp", v.Height)
}

// ParseMasterPlaylist lists the variants of a master playlist. Variant URIs
// are resolved against playlistURL. A body without the #EXTM3U header has no
// variants.
func ParseMasterPlaylist(playlistURL string, r io.Reader) ([]Variant, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)

	var (
		variants []Variant
		header   bool
		pending  *Variant
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#EXTM3U") {
			header = true
			continue
		}
		if strings.HasPrefix(line, "#EXT-X-STREAM") {
			pending = nil
			if m := resolutionRe.FindStringSubmatch(line); m != nil {
				w, _ := strconv.Atoi(m[1])
				h, _ := strconv.Atoi(m[2])
				pending = &Variant{Width: w, Height: h}
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if pending != nil {
			pending.URL = resolveURI(playlistURL, line)
			variants = append(variants, *pending)
			pending = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !header {
		return nil, nil
	}
	return variants, nil
}

// resolveURI resolves a playlist entry against the playlist's own location.
func resolveURI(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return base[:strings.LastIndex(base, "/")+1] + ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return base[:strings.LastIndex(base, "/")+1] + ref
	}
	return b.ResolveReference(r).String()
}
