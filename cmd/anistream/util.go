package cmd

import (
	"errors"

	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/quality"
	"github.com/kerbaras/anistream/pkg/services"
	"github.com/kerbaras/anistream/pkg/utils"
)

func track() data.Track {
	return data.ParseTrack(cfg.Track)
}

func preference() data.Preference {
	return quality.ParsePreference(cfg.Quality)
}

// friendly turns catalog failures into messages a user can act on.
func friendly(err error) error {
	switch {
	case utils.IsTransportError(err):
		return errors.New("could not reach catalog, try again")
	case errors.Is(err, services.ErrNoLibrary):
		return errors.New("the library is disabled, drop --no-library or set ANISTREAM_DB")
	}
	return err
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
