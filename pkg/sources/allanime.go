package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/metrics"
	"github.com/kerbaras/anistream/pkg/utils"
)

const DefaultSearchLimit = 40

// sourcePrefix is a sentinel the catalog sometimes prepends to obfuscated paths.
const sourcePrefix = "--"

// edge is one search hit as returned by the catalog.
type edge struct {
	ID                string         `json:"_id"`
	Name              string         `json:"name"`
	AvailableEpisodes map[string]int `json:"availableEpisodes"`
}

func (e *edge) ToShow(track data.Track) *data.Show {
	return &data.Show{
		ID:   e.ID,
		Name: e.Name,
		Episodes: map[data.Track]int{
			data.TrackSub: max(e.AvailableEpisodes[string(data.TrackSub)], 0),
			data.TrackDub: max(e.AvailableEpisodes[string(data.TrackDub)], 0),
		},
		Track: track,
	}
}

type sourceURL struct {
	SourceURL  string `json:"sourceUrl"`
	SourceName string `json:"sourceName"`
}

func (s *sourceURL) ToEncryptedSource() *data.EncryptedSource {
	return &data.EncryptedSource{
		Name: s.SourceName,
		URL:  strings.TrimPrefix(s.SourceURL, sourcePrefix),
	}
}

// AllAnime talks to the AllAnime GraphQL endpoint over GET.
type AllAnime struct {
	api   *utils.API
	limit int
}

// NewAllAnime returns a catalog client. api must point at the GraphQL
// endpoint and carry the user-agent and referer headers.
func NewAllAnime(api *utils.API, searchLimit int) *AllAnime {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &AllAnime{api: api, limit: searchLimit}
}

// query runs one GraphQL document. A nil error with ok=false means the
// envelope was malformed and the caller should return an empty result.
func (a *AllAnime) query(op, document string, variables any, v any) (bool, error) {
	vars, err := json.Marshal(variables)
	if err != nil {
		return false, fmt.Errorf("failed to encode variables: %w", err)
	}
	params := url.Values{
		"variables": {string(vars)},
		"query":     {document},
	}

	err = a.api.Get("", params, v)
	if err == nil {
		return true, nil
	}

	var te *utils.TransportError
	if errors.As(err, &te) {
		metrics.ObserveCatalog(op, metrics.OutcomeError)
		return false, fmt.Errorf("%s failed: %w", op, err)
	}

	shapeErr := &ShapeError{Op: op, Err: err}
	metrics.ObserveCatalog(op, metrics.OutcomeShape)
	slog.Debug("catalog returned malformed envelope", slog.String("op", op), slog.Any("error", shapeErr))
	return false, nil
}

// Search returns shows matching query that have at least one episode on track.
// Only the first page is fetched.
func (a *AllAnime) Search(query string, track data.Track) ([]data.Show, error) {
	variables := searchVariables{
		Search: searchInput{
			AllowAdult:   false,
			AllowUnknown: false,
			Query:        query,
		},
		Limit:           a.limit,
		Page:            1,
		TranslationType: string(track),
		CountryOrigin:   "ALL",
	}

	var resp struct {
		Data struct {
			Shows struct {
				Edges []json.RawMessage `json:"edges"`
			} `json:"shows"`
		} `json:"data"`
	}
	ok, err := a.query("search", searchQuery, variables, &resp)
	if err != nil || !ok {
		return []data.Show{}, err
	}

	out := make([]data.Show, 0, len(resp.Data.Shows.Edges))
	for _, raw := range resp.Data.Shows.Edges {
		var e edge
		if err := json.Unmarshal(raw, &e); err != nil || e.ID == "" {
			slog.Debug("skipping malformed search edge", slog.Any("error", err))
			continue
		}
		show := e.ToShow(track)
		if show.EpisodeCount(track) <= 0 {
			continue
		}
		out = append(out, *show)
	}

	metrics.ObserveCatalog("search", outcome(len(out)))
	return out, nil
}

// Episodes returns the episode labels published for track, sorted numerically.
func (a *AllAnime) Episodes(showID string, track data.Track) ([]string, error) {
	var resp struct {
		Data struct {
			Show struct {
				Detail map[string]json.RawMessage `json:"availableEpisodesDetail"`
			} `json:"show"`
		} `json:"data"`
	}
	ok, err := a.query("episodes", episodesQuery, episodesVariables{ShowID: showID}, &resp)
	if err != nil || !ok {
		return []string{}, err
	}

	raw, found := resp.Data.Show.Detail[string(track)]
	if !found {
		metrics.ObserveCatalog("episodes", metrics.OutcomeEmpty)
		return []string{}, nil
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Debug("malformed episode detail", slog.String("show", showID), slog.Any("error", err))
		metrics.ObserveCatalog("episodes", metrics.OutcomeShape)
		return []string{}, nil
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			labels = append(labels, v)
		case float64:
			labels = append(labels, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}

	metrics.ObserveCatalog("episodes", outcome(len(labels)))
	return SortEpisodes(labels), nil
}

// SourcesOf returns the obfuscated source records for one episode.
func (a *AllAnime) SourcesOf(showID, episode string, track data.Track) ([]data.EncryptedSource, error) {
	variables := sourcesVariables{
		ShowID:          showID,
		TranslationType: string(track),
		EpisodeString:   episode,
	}

	var resp struct {
		Data struct {
			Episode struct {
				SourceURLs []json.RawMessage `json:"sourceUrls"`
			} `json:"episode"`
		} `json:"data"`
	}
	ok, err := a.query("sources", sourcesQuery, variables, &resp)
	if err != nil || !ok {
		return []data.EncryptedSource{}, err
	}

	out := make([]data.EncryptedSource, 0, len(resp.Data.Episode.SourceURLs))
	for _, raw := range resp.Data.Episode.SourceURLs {
		var s sourceURL
		if err := json.Unmarshal(raw, &s); err != nil || s.SourceURL == "" {
			continue
		}
		out = append(out, *s.ToEncryptedSource())
	}

	metrics.ObserveCatalog("sources", outcome(len(out)))
	return out, nil
}

func outcome(n int) string {
	if n == 0 {
		return metrics.OutcomeEmpty
	}
	return metrics.OutcomeOK
}
