package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kerbaras/anistream/pkg/config"
	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/extract"
	"github.com/kerbaras/anistream/pkg/quality"
	"github.com/kerbaras/anistream/pkg/sources"
	"github.com/kerbaras/anistream/pkg/utils"
)

// ErrNoLibrary is returned by library operations when no repository is configured.
var ErrNoLibrary = errors.New("library is not available")

// Repository is the library storage used by the controller.
type Repository interface {
	SaveShow(show *data.Show) error
	GetShow(id string) (*data.Show, error)
	ListShows() ([]*data.Show, error)
	DeleteShow(id string) error
	MarkWatched(showID string, track data.Track, episode string) error
	WatchedEpisodes(showID string, track data.Track) (map[string]bool, error)
	GetShowWithWatchedCount(id string) (*data.Show, int, int, error)
}

// LibraryEntry is a followed show with its watch progress.
type LibraryEntry struct {
	Show     *data.Show
	Episodes int
	Watched  int
}

// AnimeController is the entry point for the CLI and TUI: catalog lookups,
// stream resolution and the user's library.
type AnimeController struct {
	source   sources.Source
	resolver *Resolver
	repo     Repository
}

// NewAnimeController wires the AllAnime catalog, the extractor and the
// library at cfg.DBPath. An empty DBPath disables the library.
func NewAnimeController(cfg config.Config) (*AnimeController, error) {
	client := utils.NewClient(cfg.Timeout)
	headers := []utils.Option{
		utils.WithClient(client),
		utils.WithHeader("User-Agent", cfg.UserAgent),
		utils.WithHeader("Referer", cfg.Referer),
	}

	catalog := sources.NewAllAnime(utils.NewAPI(cfg.APIURL, headers...), cfg.SearchLimit)
	extractor := extract.NewExtractor(utils.NewAPI(cfg.BaseURL, headers...), cfg.BaseURL, cfg.Referer)
	resolver := NewResolver(extractor, cfg.Concurrency, cfg.ProviderRPS)

	var repo Repository
	if cfg.DBPath != "" {
		r, err := data.NewDuckDBRepository(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open library: %w", err)
		}
		repo = r
	}

	return NewController(catalog, resolver, repo), nil
}

// NewController builds a controller from its parts. repo may be nil.
func NewController(source sources.Source, resolver *Resolver, repo Repository) *AnimeController {
	return &AnimeController{source: source, resolver: resolver, repo: repo}
}

// GetProgressChannel exposes per-source resolution progress.
func (c *AnimeController) GetProgressChannel() <-chan ResolveProgress {
	return c.resolver.GetProgressChannel()
}

// Search looks up shows with episodes on track. An empty result is not an error.
func (c *AnimeController) Search(query string, track data.Track) ([]data.Show, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query cannot be empty")
	}
	return c.source.Search(query, track)
}

// ListEpisodes returns the sorted episode labels of a show for track.
func (c *AnimeController) ListEpisodes(showID string, track data.Track) ([]string, error) {
	if showID == "" {
		return nil, errors.New("show id cannot be empty")
	}
	return c.source.Episodes(showID, track)
}

// GetStreamsForEpisode fetches the sources of an episode and resolves them
// into streams, in catalog order. Only the catalog call can fail; broken
// sources are skipped.
func (c *AnimeController) GetStreamsForEpisode(showID, episode string, track data.Track) ([]data.Stream, error) {
	if showID == "" || episode == "" {
		return nil, errors.New("show id and episode are required")
	}
	srcs, err := c.source.SourcesOf(showID, episode, track)
	if err != nil {
		return nil, err
	}
	if len(srcs) == 0 {
		return []data.Stream{}, nil
	}
	return c.resolver.Resolve(srcs), nil
}

// Select picks one stream for pref.
func (c *AnimeController) Select(streams []data.Stream, pref data.Preference) (data.Stream, bool) {
	return quality.Select(streams, pref)
}

// Follow adds a show to the library.
func (c *AnimeController) Follow(show data.Show) error {
	if c.repo == nil {
		return ErrNoLibrary
	}
	if show.Status == "" {
		show.Status = "watching"
	}
	return c.repo.SaveShow(&show)
}

// AddFirst searches for query and follows the first hit. It returns nil
// without error when nothing matched.
func (c *AnimeController) AddFirst(query string, track data.Track) (*data.Show, error) {
	shows, err := c.Search(query, track)
	if err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		return nil, nil
	}
	show := shows[0]
	if err := c.Follow(show); err != nil {
		return nil, err
	}
	return &show, nil
}

// Unfollow removes a show and its watched marks.
func (c *AnimeController) Unfollow(showID string) error {
	if c.repo == nil {
		return ErrNoLibrary
	}
	return c.repo.DeleteShow(showID)
}

// Library lists followed shows with their progress.
func (c *AnimeController) Library() ([]LibraryEntry, error) {
	if c.repo == nil {
		return nil, ErrNoLibrary
	}
	shows, err := c.repo.ListShows()
	if err != nil {
		return nil, err
	}

	entries := make([]LibraryEntry, 0, len(shows))
	for _, s := range shows {
		_, total, watched, err := c.repo.GetShowWithWatchedCount(s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count episodes of %s: %w", s.ID, err)
		}
		entries = append(entries, LibraryEntry{Show: s, Episodes: total, Watched: watched})
	}
	return entries, nil
}

// MarkWatched records an episode as played. The show must be in the library.
func (c *AnimeController) MarkWatched(showID string, track data.Track, episode string) error {
	if c.repo == nil {
		return ErrNoLibrary
	}
	show, err := c.repo.GetShow(showID)
	if err != nil {
		return err
	}
	if show == nil {
		return fmt.Errorf("show %s is not in the library", showID)
	}
	return c.repo.MarkWatched(showID, track, episode)
}

// Watched returns the watched episodes of a show, empty if the library is off.
func (c *AnimeController) Watched(showID string, track data.Track) map[string]bool {
	if c.repo == nil {
		return map[string]bool{}
	}
	w, err := c.repo.WatchedEpisodes(showID, track)
	if err != nil {
		slog.Debug("failed to read watched episodes", slog.String("show", showID), slog.Any("error", err))
		return map[string]bool{}
	}
	return w
}
