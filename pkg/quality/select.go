// Package quality ranks streams and picks one for a user preference.
package quality

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/kerbaras/anistream/pkg/data"
)

var digitsRe = regexp.MustCompile(`\d+`)

// Value is the numeric rank of a quality label: its first run of digits,
// or 0 when it has none.
func Value(quality string) int {
	m := digitsRe.FindString(quality)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// Rank returns a copy of streams ordered from highest to lowest quality.
// Streams of equal rank keep their input order.
func Rank(streams []data.Stream) []data.Stream {
	out := slices.Clone(streams)
	slices.SortStableFunc(out, func(a, b data.Stream) int {
		return cmp.Compare(Value(b.Quality), Value(a.Quality))
	})
	return out
}

// Select picks the stream matching pref. ok is false only when streams is empty.
func Select(streams []data.Stream, pref data.Preference) (data.Stream, bool) {
	if len(streams) == 0 {
		return data.Stream{}, false
	}
	ranked := Rank(streams)

	switch pref.Kind {
	case "worst":
		return ranked[len(ranked)-1], true
	case "label":
		for _, s := range ranked {
			if strings.Contains(s.Quality, pref.Label) {
				return s, true
			}
		}
	}
	return ranked[0], true
}

// ParsePreference reads "best", "worst" or any other label such as "720".
func ParsePreference(s string) data.Preference {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best":
		return data.PreferBest
	case "worst":
		return data.PreferWorst
	default:
		return data.PreferLabel(strings.TrimSpace(s))
	}
}
