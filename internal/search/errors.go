// Package search implements the nearest-market search and the state/crop
// browse view on top of the price feed, the geocoder, and the distance
// engine.
package search

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Validation and resolution failures surfaced to the user verbatim.
var (
	ErrStateRequired      = eris.New("Please select a state")
	ErrLocationRequired   = eris.New("Please enter your location")
	ErrLocationUnresolved = eris.New("Could not determine location coordinates")
)

// ErrSuperseded is returned when a newer search for the same session
// started before this one finished.
var ErrSuperseded = eris.New("search: superseded by a newer search")

// IsValidation reports whether err is a user input problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrStateRequired) || errors.Is(err, ErrLocationRequired)
}
