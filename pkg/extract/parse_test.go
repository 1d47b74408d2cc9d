package extract

import (
	"testing"

	"github.com/kerbaras/anistream/pkg/data"
	"github.com/stretchr/testify/assert"
)

func TestParseRepackaged(t *testing.T) {
	t.Run("link and resolution pairs", func(t *testing.T) {
		body := `{"links":[` +
			`{"link":"https:\/\/repackager.wixmp.com\/video.wixstatic.com\/video\/abc\/1080p\/mp4\/file.mp4.urlset\/master.m3u8","resolutionStr":"1080p","src":"x"},` +
			`{"link":"https://repackager.wixmp.com/video.wixstatic.com/video/abc/720p/mp4/file.mp4.urlset/master.m3u8","resolutionStr":"720p"}` +
			`]}`

		streams := ParseRepackaged(body, data.ProviderGeneric)
		assert.Equal(t, []data.Stream{
			{
				URL:      "https://video.wixstatic.com/video/abc/1080p/mp4/file.mp4",
				Quality:  "1080p",
				Provider: data.ProviderGeneric,
				Format:   data.ContainerProgressive,
			},
			{
				URL:      "https://video.wixstatic.com/video/abc/720p/mp4/file.mp4",
				Quality:  "720p",
				Provider: data.ProviderGeneric,
				Format:   data.ContainerProgressive,
			},
		}, streams)
	})

	t.Run("unicode escaped slashes", func(t *testing.T) {
		body := `{"link":"https:\u002F\u002Frepackager.wixmp.com\u002Fcdn.example\u002Fv.mp4.urlset\u002Fmaster.m3u8","resolutionStr":"480p"}`

		streams := ParseRepackaged(body, data.ProviderGeneric)
		if assert.Len(t, streams, 1) {
			assert.Equal(t, "https://cdn.example/v.mp4", streams[0].URL)
		}
	})

	t.Run("falls back to first link", func(t *testing.T) {
		body := `{"links":[{"link":"https://repackager.wixmp.com/cdn/v.mp4"}]}`

		streams := ParseRepackaged(body, data.ProviderGeneric)
		if assert.Len(t, streams, 1) {
			assert.Equal(t, "auto", streams[0].Quality)
			assert.Equal(t, "https://repackager.wixmp.com/cdn/v.mp4", streams[0].URL)
		}
	})

	t.Run("fallback stays progressive", func(t *testing.T) {
		body := `repackager.wixmp.com {"link":"https://cdn.example/x/index.m3u8"}`

		assert.Equal(t, []data.Stream{{
			URL:      "https://cdn.example/x/index.m3u8",
			Quality:  "auto",
			Provider: data.ProviderGeneric,
			Format:   data.ContainerProgressive,
		}}, ParseRepackaged(body, data.ProviderGeneric))
	})

	t.Run("pairs are not filtered", func(t *testing.T) {
		body := `{"links":[{"link":"null","resolutionStr":"720p"},{"link":"https://repackager.wixmp.com/cdn/v.mp4.urlset/master.m3u8","resolutionStr":"1080p"}]}`

		streams := ParseRepackaged(body, data.ProviderGeneric)
		if assert.Len(t, streams, 2) {
			assert.Equal(t, "null", streams[0].URL)
			assert.Equal(t, "https://cdn/v.mp4", streams[1].URL)
			assert.Equal(t, data.ContainerProgressive, streams[1].Format)
		}
	})

	t.Run("no links", func(t *testing.T) {
		assert.Empty(t, ParseRepackaged(`repackager.wixmp.com`, data.ProviderGeneric))
		assert.Empty(t, ParseRepackaged(`repackager.wixmp.com {"link":""}`, data.ProviderGeneric))
	})
}

func TestParseDirect(t *testing.T) {
	t.Run("pairs with container detection", func(t *testing.T) {
		body := `{"links":[` +
			`{"link":"https://cdn.example/v1080.mp4","resolutionStr":"1080p"},` +
			`{"link":"null","resolutionStr":"720p"},` +
			`{"link":"","resolutionStr":"540p"},` +
			`{"link":"https://cdn.example/stream/index.m3u8","resolutionStr":"Mp4"}` +
			`]}`

		streams := ParseDirect(body, data.ProviderSharePoint)
		assert.Equal(t, []data.Stream{
			{
				URL:      "https://cdn.example/v1080.mp4",
				Quality:  "1080p",
				Provider: data.ProviderSharePoint,
				Format:   data.ContainerProgressive,
			},
			{
				URL:      "https://cdn.example/stream/index.m3u8",
				Quality:  "Mp4",
				Provider: data.ProviderSharePoint,
				Format:   data.ContainerSegmented,
			},
		}, streams)
	})

	t.Run("falls back to first link", func(t *testing.T) {
		streams := ParseDirect(`{"links":[{"link":"https:\/\/cdn.example\/v.mp4"}]}`, data.ProviderYouTube)
		assert.Equal(t, []data.Stream{{
			URL:      "https://cdn.example/v.mp4",
			Quality:  "auto",
			Provider: data.ProviderYouTube,
			Format:   data.ContainerProgressive,
		}}, streams)
	})

	t.Run("fallback skips empty links", func(t *testing.T) {
		streams := ParseDirect(`{"links":[{"link":""},{"link":"https://cdn.example/v.mp4"}]}`, data.ProviderSharePoint)
		assert.Equal(t, []data.Stream{{
			URL:      "https://cdn.example/v.mp4",
			Quality:  "auto",
			Provider: data.ProviderSharePoint,
			Format:   data.ContainerProgressive,
		}}, streams)
	})

	t.Run("segmented fallback", func(t *testing.T) {
		streams := ParseDirect(`{"link":"https://cdn.example/hls/index.m3u8"}`, data.ProviderUnknown)
		if assert.Len(t, streams, 1) {
			assert.Equal(t, data.ContainerSegmented, streams[0].Format)
		}
	})

	t.Run("null fallback", func(t *testing.T) {
		assert.Empty(t, ParseDirect(`{"links":[{"link":"null"}]}`, data.ProviderYouTube))
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Empty(t, ParseDirect(`<html>403</html>`, data.ProviderUnknown))
	})
}

func TestPlaylistURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"hls object", `{"links":[{"hls":{"url":"https:\/\/cdn\/a\/index.m3u8"},"link":"https://cdn/b/list.m3u8"}]}`, "https://cdn/a/index.m3u8"},
		{"m3u8 link", `{"links":[{"link":"https://cdn/b/list.m3u8?t=1"}]}`, "https://cdn/b/list.m3u8?t=1"},
		{"bare master url", `{"src":"https://cdn/c/master.m3u8"}`, "https://cdn/c/master.m3u8"},
		{"none", `{"hls":true}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlaylistURL(tt.body))
		})
	}
}

func TestReferer(t *testing.T) {
	assert.Equal(t, "https://player.example/", Referer(`{"headers":{"Referer":"https:\/\/player.example\/"}}`, "https://allmanga.to"))
	assert.Equal(t, "https://allmanga.to", Referer(`{"headers":{}}`, "https://allmanga.to"))
}

func TestEnglishSubtitle(t *testing.T) {
	body := `{"subtitles":[{"lang":"es","src":"https://cdn/es.vtt"},{"lang":"en","label":"English","src":"https:\/\/cdn\/en.vtt"}]}`
	assert.Equal(t, "https://cdn/en.vtt", EnglishSubtitle(body))
	assert.Equal(t, "", EnglishSubtitle(`{"subtitles":[{"lang":"es","src":"https://cdn/es.vtt"}]}`))
}
