package services

import (
	"github.com/kerbaras/anistream/pkg/data"
)

// Mock implementations for testing

type mockSource struct {
	searchFunc    func(query string, track data.Track) ([]data.Show, error)
	episodesFunc  func(showID string, track data.Track) ([]string, error)
	sourcesOfFunc func(showID, episode string, track data.Track) ([]data.EncryptedSource, error)
}

func (m *mockSource) Search(query string, track data.Track) ([]data.Show, error) {
	if m.searchFunc != nil {
		return m.searchFunc(query, track)
	}
	return nil, nil
}

func (m *mockSource) Episodes(showID string, track data.Track) ([]string, error) {
	if m.episodesFunc != nil {
		return m.episodesFunc(showID, track)
	}
	return nil, nil
}

func (m *mockSource) SourcesOf(showID, episode string, track data.Track) ([]data.EncryptedSource, error) {
	if m.sourcesOfFunc != nil {
		return m.sourcesOfFunc(showID, episode, track)
	}
	return nil, nil
}

type mockExtractor struct {
	extractFunc func(src data.EncryptedSource) []data.Stream
}

func (m *mockExtractor) Extract(src data.EncryptedSource) []data.Stream {
	if m.extractFunc != nil {
		return m.extractFunc(src)
	}
	return nil
}

type mockRepository struct {
	saveShowFunc                func(show *data.Show) error
	getShowFunc                 func(id string) (*data.Show, error)
	listShowsFunc               func() ([]*data.Show, error)
	deleteShowFunc              func(id string) error
	markWatchedFunc             func(showID string, track data.Track, episode string) error
	watchedEpisodesFunc         func(showID string, track data.Track) (map[string]bool, error)
	getShowWithWatchedCountFunc func(id string) (*data.Show, int, int, error)
}

func (m *mockRepository) SaveShow(show *data.Show) error {
	if m.saveShowFunc != nil {
		return m.saveShowFunc(show)
	}
	return nil
}

func (m *mockRepository) GetShow(id string) (*data.Show, error) {
	if m.getShowFunc != nil {
		return m.getShowFunc(id)
	}
	return nil, nil
}

func (m *mockRepository) ListShows() ([]*data.Show, error) {
	if m.listShowsFunc != nil {
		return m.listShowsFunc()
	}
	return nil, nil
}

func (m *mockRepository) DeleteShow(id string) error {
	if m.deleteShowFunc != nil {
		return m.deleteShowFunc(id)
	}
	return nil
}

func (m *mockRepository) MarkWatched(showID string, track data.Track, episode string) error {
	if m.markWatchedFunc != nil {
		return m.markWatchedFunc(showID, track, episode)
	}
	return nil
}

func (m *mockRepository) WatchedEpisodes(showID string, track data.Track) (map[string]bool, error) {
	if m.watchedEpisodesFunc != nil {
		return m.watchedEpisodesFunc(showID, track)
	}
	return map[string]bool{}, nil
}

func (m *mockRepository) GetShowWithWatchedCount(id string) (*data.Show, int, int, error) {
	if m.getShowWithWatchedCountFunc != nil {
		return m.getShowWithWatchedCountFunc(id)
	}
	return nil, 0, 0, nil
}
