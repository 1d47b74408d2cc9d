package extract

import (
	"strings"

	"github.com/kerbaras/anistream/pkg/data"
)

// labels is checked in order; the first substring found in a source name wins.
var labels = []struct {
	substr   string
	provider data.ProviderID
}{
	{"Default", data.ProviderGeneric},
	{"Yt-mp4", data.ProviderYouTube},
	{"S-mp4", data.ProviderSharePoint},
	{"Luf-Mp4", data.ProviderHiAnimeLike},
}

// ClassifyProvider maps a catalog source name to a provider. Matching is
// case-sensitive.
func ClassifyProvider(name string) data.ProviderID {
	for _, l := range labels {
		if strings.Contains(name, l.substr) {
			return l.provider
		}
	}
	return data.ProviderUnknown
}
