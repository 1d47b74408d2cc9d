// Package extract turns obfuscated catalog sources into playable streams.
package extract

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/decoder"
	"github.com/kerbaras/anistream/pkg/metrics"
	"github.com/kerbaras/anistream/pkg/utils"
)

// Extractor fetches provider responses and normalizes them into streams.
type Extractor struct {
	api     *utils.API
	baseURL string
	referer string
}

// NewExtractor returns an Extractor. api carries the fixed user-agent and
// referer headers; baseURL is prefixed to decoded provider paths and referer
// is the default Referer attached to streams that need one.
func NewExtractor(api *utils.API, baseURL, referer string) *Extractor {
	return &Extractor{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
		referer: referer,
	}
}

// Extract resolves one source. Every failure yields no streams; it never
// affects other sources.
func (e *Extractor) Extract(src data.EncryptedSource) []data.Stream {
	path := decoder.Decode(src.URL)
	if path == "" {
		return nil
	}

	provider := ClassifyProvider(src.Name)
	target := e.requestURL(path)
	log := slog.With(slog.String("source", src.Name), slog.String("provider", string(provider)))

	if IsProxyURL(target) {
		metrics.ObserveExtraction(string(provider), "proxy", metrics.OutcomeBypass)
		return []data.Stream{{
			URL:      target,
			Quality:  autoQuality,
			Provider: data.ProviderYouTube,
			Format:   data.ContainerProgressive,
			Referer:  e.referer,
		}}
	}

	body, err := e.api.GetText(target, nil)
	if err != nil {
		log.Debug("provider fetch failed", slog.Any("error", err))
		metrics.ObserveExtraction(string(provider), "none", metrics.OutcomeError)
		return nil
	}

	shape := Classify(body)
	var streams []data.Stream
	switch shape {
	case ShapeRepackaged:
		streams = ParseRepackaged(body, provider)
	case ShapePlaylist:
		streams = e.playlist(body, provider)
	default:
		streams = ParseDirect(body, provider)
	}

	outcome := metrics.OutcomeOK
	if len(streams) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveExtraction(string(provider), shape.String(), outcome)
	log.Debug("source extracted", slog.String("shape", shape.String()), slog.Int("streams", len(streams)))
	return streams
}

// requestURL joins the base origin and a decoded path. Paths that already
// are absolute URLs are used as-is.
func (e *Extractor) requestURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return e.baseURL + path
}

// playlist fetches the master playlist a body points at and lists its
// variants, falling back to the master playlist itself.
func (e *Extractor) playlist(body string, provider data.ProviderID) []data.Stream {
	playlistURL := PlaylistURL(body)
	if playlistURL == "" {
		return nil
	}
	referer := Referer(body, e.referer)

	var streams []data.Stream
	manifest, err := e.api.GetText(playlistURL, http.Header{"Referer": {referer}})
	if err != nil {
		slog.Debug("playlist fetch failed", slog.String("url", playlistURL), slog.Any("error", err))
	} else {
		variants, err := ParseMasterPlaylist(playlistURL, strings.NewReader(manifest))
		if err != nil {
			slog.Debug("playlist parse failed", slog.String("url", playlistURL), slog.Any("error", err))
		}
		for _, v := range variants {
			streams = append(streams, data.Stream{
				URL:      v.URL,
				Quality:  v.Quality(),
				Provider: provider,
				Format:   data.ContainerSegmented,
				Referer:  referer,
			})
		}
	}

	if len(streams) == 0 {
		streams = []data.Stream{{
			URL:      playlistURL,
			Quality:  autoQuality,
			Provider: provider,
			Format:   data.ContainerSegmented,
			Referer:  referer,
		}}
	}

	if sub := EnglishSubtitle(body); sub != "" {
		for i := range streams {
			streams[i].Subtitle = sub
		}
	}
	return streams
}
