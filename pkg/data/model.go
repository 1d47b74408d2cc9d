package data

import "strings"

// Track is the audio/subtitle variant of a show: "sub" or "dub".
type Track string

const (
	TrackSub Track = "sub"
	TrackDub Track = "dub"
)

// ParseTrack maps user input to a Track, defaulting to sub.
func ParseTrack(s string) Track {
	if strings.EqualFold(strings.TrimSpace(s), string(TrackDub)) {
		return TrackDub
	}
	return TrackSub
}

func (t Track) String() string {
	return string(t)
}

type Show struct {
	ID       string
	Name     string
	Episodes map[Track]int // available episode counts per track
	Track    Track         // track the show was found under
	Status   string        // library status: "watching", "completed"
}

// EpisodeCount returns the number of available episodes for the given track.
func (s Show) EpisodeCount(t Track) int {
	if s.Episodes == nil {
		return 0
	}
	return s.Episodes[t]
}

// EncryptedSource is one raw source record of an episode, as returned by the catalog.
type EncryptedSource struct {
	Name string // provider label, e.g. "Default", "S-mp4"
	URL  string // obfuscated hex payload, leading "--" already stripped
}

type ProviderID string

const (
	ProviderGeneric     ProviderID = "wixmp"
	ProviderYouTube     ProviderID = "youtube"
	ProviderSharePoint  ProviderID = "sharepoint"
	ProviderHiAnimeLike ProviderID = "hianime"
	ProviderUnknown     ProviderID = "unknown"
)

// Container tells the player how to consume a stream URL.
type Container string

const (
	ContainerProgressive Container = "mp4"
	ContainerSegmented   Container = "m3u8"
)

// Stream is a directly playable URL with everything needed to play it.
type Stream struct {
	URL      string
	Quality  string // "1080p", "720p", "auto"
	Provider ProviderID
	Format   Container
	Referer  string
	Subtitle string // optional English subtitle URL
}

// IsSegmented reports whether the stream is an HLS playlist.
func (s Stream) IsSegmented() bool {
	return s.Format == ContainerSegmented
}

// Preference is the user's quality choice: best, worst or a label such as "720".
type Preference struct {
	Kind  string // "best", "worst", "label"
	Label string
}

var (
	PreferBest  = Preference{Kind: "best"}
	PreferWorst = Preference{Kind: "worst"}
)

func PreferLabel(label string) Preference {
	return Preference{Kind: "label", Label: label}
}

func (p Preference) String() string {
	if p.Kind == "label" {
		return p.Label
	}
	return p.Kind
}

// WatchedEpisode is a library mark for an episode the user has played.
type WatchedEpisode struct {
	ShowID  string
	Track   Track
	Episode string
}
