package search

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/kisanportal/mandi-cli/internal/model"
)

// Device location failures. The caller falls back to geocoding the typed
// location on any of them.
var (
	ErrLocationUnsupported = eris.New("Geolocation is not supported")
	ErrLocationDenied      = eris.New("Location permission denied")
	ErrLocationUnavailable = eris.New("Location unavailable")
)

// Locator reports the user's device position.
type Locator interface {
	Locate(ctx context.Context) (model.Coordinate, error)
}

// StaticLocator returns a coordinate the caller already obtained, such as
// browser geolocation posted with the request or --lat/--lng on the CLI.
type StaticLocator struct {
	coord  *model.Coordinate
	denied bool
}

// NewStaticLocator wraps c. A nil c means the client could not supply a position.
func NewStaticLocator(c *model.Coordinate) *StaticLocator {
	return &StaticLocator{coord: c}
}

// DeniedLocator is a Locator for clients that reported a permission refusal.
func DeniedLocator() *StaticLocator {
	return &StaticLocator{denied: true}
}

// Locate implements Locator.
func (l *StaticLocator) Locate(ctx context.Context) (model.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinate{}, eris.Wrap(err, "search: locate")
	}
	switch {
	case l.denied:
		return model.Coordinate{}, ErrLocationDenied
	case l.coord == nil:
		return model.Coordinate{}, ErrLocationUnsupported
	case !l.coord.Valid():
		return model.Coordinate{}, ErrLocationUnavailable
	}
	return *l.coord, nil
}
