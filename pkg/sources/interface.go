package sources

import (
	"fmt"

	"github.com/kerbaras/anistream/pkg/data"
)

// Source is a catalog of shows. Transport failures are returned as
// *utils.TransportError; an upstream with no data yields empty results.
type Source interface {
	Search(query string, track data.Track) ([]data.Show, error)
	Episodes(showID string, track data.Track) ([]string, error)
	SourcesOf(showID, episode string, track data.Track) ([]data.EncryptedSource, error)
}

// ShapeError reports a catalog envelope that could not be decoded. Catalog
// calls log it and return an empty result instead.
type ShapeError struct {
	Op  string
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: malformed catalog response: %v", e.Op, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}
