package extract

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/decoder"
	"github.com/kerbaras/anistream/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultReferer = "https://allmanga.to"

func newTestExtractor(baseURL string) *Extractor {
	api := utils.NewAPI(baseURL,
		utils.WithHeader("User-Agent", "test-agent"),
		utils.WithHeader("Referer", defaultReferer),
	)
	return NewExtractor(api, baseURL, defaultReferer)
}

func TestExtractor_Direct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apivtwo/clock.json", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, defaultReferer, r.Header.Get("Referer"))
		w.Write([]byte(`{"links":[{"link":"https://cdn.example/v.mp4","resolutionStr":"1080p"}]}`))
	}))
	defer server.Close()

	src := data.EncryptedSource{Name: "S-mp4", URL: decoder.Encode("/apivtwo/clock?id=42")}
	streams := newTestExtractor(server.URL).Extract(src)

	assert.Equal(t, []data.Stream{{
		URL:      "https://cdn.example/v.mp4",
		Quality:  "1080p",
		Provider: data.ProviderSharePoint,
		Format:   data.ContainerProgressive,
	}}, streams)
}

func TestExtractor_UnknownLabelStillExtracts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"links":[{"link":"https://cdn.example/v.mp4","resolutionStr":"720p"}]}`))
	}))
	defer server.Close()

	streams := newTestExtractor(server.URL).Extract(data.EncryptedSource{Name: "Mystery", URL: decoder.Encode("/x")})
	require.Len(t, streams, 1)
	assert.Equal(t, data.ProviderUnknown, streams[0].Provider)
}

func TestExtractor_Repackaged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"links":[{"link":"https://repackager.wixmp.com/video.wixstatic.com/v/1080p/f.mp4.urlset/master.m3u8","resolutionStr":"1080p"}]}`))
	}))
	defer server.Close()

	streams := newTestExtractor(server.URL).Extract(data.EncryptedSource{Name: "Default", URL: decoder.Encode("/apivtwo/clock?id=1")})
	assert.Equal(t, []data.Stream{{
		URL:      "https://video.wixstatic.com/v/1080p/f.mp4",
		Quality:  "1080p",
		Provider: data.ProviderGeneric,
		Format:   data.ContainerProgressive,
	}}, streams)
}

func TestExtractor_Playlist(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/apivtwo/clock.json":
			w.Write([]byte(`{"links":[{"link":"` + server.URL + `/hls/ep1/master.m3u8","hls":true,` +
				`"headers":{"Referer":"https://player.example/"},` +
				`"subtitles":[{"lang":"en","label":"English","src":"https://cdn.example/en.vtt"}]}]}`))
		case "/hls/ep1/master.m3u8":
			assert.Equal(t, "https://player.example/", r.Header.Get("Referer"))
			w.Write([]byte("#EXTM3U\n" +
				"#EXT-X-STREAM-INF:BANDWIDTH=2800000,RESOLUTION=1280x720\n720.m3u8\n" +
				"#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360\n360.m3u8\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	streams := newTestExtractor(server.URL).Extract(data.EncryptedSource{Name: "Luf-Mp4", URL: decoder.Encode("/apivtwo/clock?id=1")})
	assert.Equal(t, []data.Stream{
		{
			URL:      server.URL + "/hls/ep1/720.m3u8",
			Quality:  "720p",
			Provider: data.ProviderHiAnimeLike,
			Format:   data.ContainerSegmented,
			Referer:  "https://player.example/",
			Subtitle: "https://cdn.example/en.vtt",
		},
		{
			URL:      server.URL + "/hls/ep1/360.m3u8",
			Quality:  "360p",
			Provider: data.ProviderHiAnimeLike,
			Format:   data.ContainerSegmented,
			Referer:  "https://player.example/",
			Subtitle: "https://cdn.example/en.vtt",
		},
	}, streams)
}

func TestExtractor_PlaylistFetchFails(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/apivtwo/clock.json" {
			w.Write([]byte(`{"links":[{"link":"` + server.URL + `/gone/master.m3u8"}]}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	streams := newTestExtractor(server.URL).Extract(data.EncryptedSource{Name: "Luf-Mp4", URL: decoder.Encode("/apivtwo/clock?id=1")})
	assert.Equal(t, []data.Stream{{
		URL:      server.URL + "/gone/master.m3u8",
		Quality:  "auto",
		Provider: data.ProviderHiAnimeLike,
		Format:   data.ContainerSegmented,
		Referer:  defaultReferer,
	}}, streams)
}

func TestExtractor_PlaylistWithoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hls":true}`))
	}))
	defer server.Close()

	streams := newTestExtractor(server.URL).Extract(data.EncryptedSource{Name: "Luf-Mp4", URL: decoder.Encode("/x")})
	assert.Empty(t, streams)
}

func TestExtractor_ProxyDomainSkipsFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	target := "https://tools.fast4speed.rsvp/media9/videos/abc/sub/1"
	streams := newTestExtractor(server.URL).Extract(data.EncryptedSource{Name: "Yt-mp4", URL: decoder.Encode(target)})

	assert.Equal(t, []data.Stream{{
		URL:      target,
		Quality:  "auto",
		Provider: data.ProviderYouTube,
		Format:   data.ContainerProgressive,
		Referer:  defaultReferer,
	}}, streams)
	assert.Equal(t, int32(0), hits.Load())
}

func TestExtractor_Failures(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"links":[{"link":"https://cdn/x.mp4","resolutionStr":"1080p"}]}`))
		}))
		defer server.Close()

		assert.Empty(t, newTestExtractor(server.URL).Extract(data.EncryptedSource{Name: "Default", URL: decoder.Encode("/x")}))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		base := server.URL
		server.Close()

		assert.Empty(t, newTestExtractor(base).Extract(data.EncryptedSource{Name: "Default", URL: decoder.Encode("/x")}))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Empty(t, newTestExtractor("http://127.0.0.1:1").Extract(data.EncryptedSource{Name: "Default"}))
	})
}
