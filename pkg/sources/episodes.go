package sources

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// episodeKey is the numeric sort key of an episode label. Labels that are not
// finite numbers sort before everything else.
func episodeKey(label string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return math.Inf(-1)
	}
	return f
}

// SortEpisodes returns labels in ascending numeric order. Labels with equal
// keys keep their upstream order.
func SortEpisodes(labels []string) []string {
	out := slices.Clone(labels)
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(episodeKey(a), episodeKey(b))
	})
	return out
}
