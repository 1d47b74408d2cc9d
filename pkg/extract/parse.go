package extract

import (
	"regexp"
	"strings"

	"github.com/kerbaras/anistream/pkg/data"
)

var (
	linkQualityRe = regexp.MustCompile(`"link":"([^"]*)"[^}]*"resolutionStr":"([^"]*)"`)
	linkRe        = regexp.MustCompile(`"link":"([^"]+)"`)
	urlsetRe      = regexp.MustCompile(`\.urlset.*`)

	hlsURLRe    = regexp.MustCompile(`"hls"[^}]*"url":"([^"]*)"`)
	m3u8LinkRe  = regexp.MustCompile(`"link":"([^"]*\.m3u8[^"]*)"`)
	masterURLRe = regexp.MustCompile(`(https?://[^"]*master\.m3u8[^"]*)`)

	refererRe  = regexp.MustCompile(`"Referer":"([^"]*)"`)
	subtitleRe = regexp.MustCompile(`"subtitles":\[.*?"lang":"en".*?"src":"([^"]*)"`)
)

const autoQuality = "auto"

// unescape undoes the JSON escaping providers apply to URLs.
func unescape(u string) string {
	u = strings.ReplaceAll(u, `\u002F`, "/")
	return strings.ReplaceAll(u, `\`, "")
}

func usable(u string) bool {
	return u != "" && u != "null"
}

func containerOf(u string) data.Container {
	if strings.Contains(u, ".m3u8") {
		return data.ContainerSegmented
	}
	return data.ContainerProgressive
}

// firstLink returns the first non-empty link of a body, unescaped.
func firstLink(body string) (string, bool) {
	m := linkRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return unescape(m[1]), true
}

// ParseRepackaged reads link/resolution pairs from a repackaging CDN
// response, stripping the repackager host and the trailing urlset path.
// Every stream is progressive.
func ParseRepackaged(body string, provider data.ProviderID) []data.Stream {
	var streams []data.Stream
	for _, m := range linkQualityRe.FindAllStringSubmatch(body, -1) {
		streams = append(streams, data.Stream{
			URL:      unwrapRepackaged(unescape(m[1])),
			Quality:  m[2],
			Provider: provider,
			Format:   data.ContainerProgressive,
		})
	}
	if len(streams) > 0 {
		return streams
	}

	u, ok := firstLink(body)
	if !ok {
		return nil
	}
	return []data.Stream{{
		URL:      u,
		Quality:  autoQuality,
		Provider: provider,
		Format:   data.ContainerProgressive,
	}}
}

func unwrapRepackaged(u string) string {
	if !strings.Contains(u, repackagerHost) {
		return u
	}
	u = strings.Replace(u, repackagerHost+"/", "", 1)
	return urlsetRe.ReplaceAllString(u, "")
}

// ParseDirect reads link/resolution pairs from a plain provider response.
func ParseDirect(body string, provider data.ProviderID) []data.Stream {
	var streams []data.Stream
	for _, m := range linkQualityRe.FindAllStringSubmatch(body, -1) {
		u := unescape(m[1])
		if !usable(u) {
			continue
		}
		streams = append(streams, data.Stream{
			URL:      u,
			Quality:  m[2],
			Provider: provider,
			Format:   containerOf(u),
		})
	}
	if len(streams) > 0 {
		return streams
	}

	u, ok := firstLink(body)
	if !ok || !usable(u) {
		return nil
	}
	return []data.Stream{{
		URL:      u,
		Quality:  autoQuality,
		Provider: provider,
		Format:   containerOf(u),
	}}
}

// PlaylistURL finds the master playlist referenced by a body, trying an hls
// object, then an m3u8 link, then any absolute master.m3u8 URL.
func PlaylistURL(body string) string {
	for _, re := range []*regexp.Regexp{hlsURLRe, m3u8LinkRe, masterURLRe} {
		if m := re.FindStringSubmatch(body); m != nil {
			if u := unescape(m[1]); u != "" {
				return u
			}
		}
	}
	return ""
}

// Referer returns the Referer header a body asks for, or fallback.
func Referer(body, fallback string) string {
	if m := refererRe.FindStringSubmatch(body); m != nil && m[1] != "" {
		return unescape(m[1])
	}
	return fallback
}

// EnglishSubtitle returns the URL of the English subtitle track, if any.
func EnglishSubtitle(body string) string {
	if m := subtitleRe.FindStringSubmatch(body); m != nil {
		return unescape(m[1])
	}
	return ""
}
