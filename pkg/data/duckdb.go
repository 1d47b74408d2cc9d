package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS shows (
	id           VARCHAR PRIMARY KEY,
	name         VARCHAR NOT NULL,
	track        VARCHAR NOT NULL,
	sub_episodes INTEGER DEFAULT 0,
	dub_episodes INTEGER DEFAULT 0,
	status       VARCHAR DEFAULT '',
	added_at     TIMESTAMP
);
CREATE TABLE IF NOT EXISTS watched (
	show_id    VARCHAR NOT NULL,
	track      VARCHAR NOT NULL,
	episode    VARCHAR NOT NULL,
	watched_at TIMESTAMP,
	PRIMARY KEY (show_id, track, episode)
);`

// InitDuckDB opens the database at path, creating parent directories and tables.
func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return db, nil
}

// Repository keeps the user's library: followed shows and watched episodes.
// Resolved streams are never stored; they expire upstream.
type Repository struct {
	db *sql.DB
}

var (
	duckDB   *sql.DB
	duckDBMu sync.Mutex
)

// NewDuckDBRepository returns a repository backed by a process-wide database handle.
// The first call opens path; later calls reuse the same handle.
func NewDuckDBRepository(path string) (*Repository, error) {
	duckDBMu.Lock()
	defer duckDBMu.Unlock()

	if duckDB == nil {
		db, err := InitDuckDB(path)
		if err != nil {
			return nil, err
		}
		duckDB = db
	}

	return &Repository{db: duckDB}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveShow inserts or updates a show.
func (r *Repository) SaveShow(show *Show) error {
	if show == nil || show.ID == "" {
		return errors.New("show must have an id")
	}
	track := show.Track
	if track == "" {
		track = TrackSub
	}
	_, err := r.db.Exec(`
		INSERT INTO shows (id, name, track, sub_episodes, dub_episodes, status, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			track = excluded.track,
			sub_episodes = excluded.sub_episodes,
			dub_episodes = excluded.dub_episodes,
			status = excluded.status`,
		show.ID, show.Name, string(track),
		show.EpisodeCount(TrackSub), show.EpisodeCount(TrackDub),
		show.Status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save show: %w", err)
	}
	return nil
}

// GetShow returns the show with the given id, or nil if it is not in the library.
func (r *Repository) GetShow(id string) (*Show, error) {
	row := r.db.QueryRow(`
		SELECT id, name, track, sub_episodes, dub_episodes, status
		FROM shows WHERE id = ?`, id)

	show, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	return show, nil
}

// ListShows returns every show in the library, most recently added first.
func (r *Repository) ListShows() ([]*Show, error) {
	rows, err := r.db.Query(`
		SELECT id, name, track, sub_episodes, dub_episodes, status
		FROM shows ORDER BY added_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	defer rows.Close()

	var shows []*Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		shows = append(shows, show)
	}
	return shows, rows.Err()
}

// DeleteShow removes a show and its watched marks.
func (r *Repository) DeleteShow(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM watched WHERE show_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete watched episodes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM shows WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete show: %w", err)
	}
	return tx.Commit()
}

// MarkWatched records that an episode was played. Marking twice is a no-op.
func (r *Repository) MarkWatched(showID string, track Track, episode string) error {
	_, err := r.db.Exec(`
		INSERT INTO watched (show_id, track, episode, watched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		showID, string(track), episode, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark episode watched: %w", err)
	}
	return nil
}

// WatchedEpisodes returns the set of watched episode labels for a show and track.
func (r *Repository) WatchedEpisodes(showID string, track Track) (map[string]bool, error) {
	rows, err := r.db.Query(`
		SELECT episode FROM watched WHERE show_id = ? AND track = ?`,
		showID, string(track))
	if err != nil {
		return nil, fmt.Errorf("failed to get watched episodes: %w", err)
	}
	defer rows.Close()

	watched := make(map[string]bool)
	for rows.Next() {
		var ep string
		if err := rows.Scan(&ep); err != nil {
			return nil, err
		}
		watched[ep] = true
	}
	return watched, rows.Err()
}

// GetShowWithWatchedCount returns the show, its available episode count on the
// show's track and how many of those the user has watched.
func (r *Repository) GetShowWithWatchedCount(id string) (*Show, int, int, error) {
	show, err := r.GetShow(id)
	if err != nil || show == nil {
		return show, 0, 0, err
	}

	var watched int
	err = r.db.QueryRow(`
		SELECT COUNT(*) FROM watched WHERE show_id = ? AND track = ?`,
		id, string(show.Track)).Scan(&watched)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count watched episodes: %w", err)
	}

	return show, show.EpisodeCount(show.Track), watched, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShow(s scanner) (*Show, error) {
	var (
		show     Show
		track    string
		sub, dub sql.NullInt64
		status   sql.NullString
	)
	if err := s.Scan(&show.ID, &show.Name, &track, &sub, &dub, &status); err != nil {
		return nil, err
	}
	show.Track = Track(track)
	show.Status = status.String
	show.Episodes = map[Track]int{
		TrackSub: int(sub.Int64),
		TrackDub: int(dub.Int64),
	}
	return &show, nil
}
