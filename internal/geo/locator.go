// Package geo provides the geolocation collaborators used to rank nearby
// facilities.
package geo

import (
	"context"
	"errors"

	"github.com/ecosnap/ecosnap/internal/model"
)

// Geolocation failure kinds.
var (
	ErrPermissionDenied = errors.New("location access denied")
	ErrUnavailable      = errors.New("location information unavailable")
	ErrTimeout          = errors.New("location request timed out")
	ErrUnknown          = errors.New("unknown location error")
)

// StaticLocator returns a fixed coordinate pair from configuration.
type StaticLocator struct {
	Lat float64
	Lon float64
}

// CurrentPosition returns the configured coordinates.
func (s StaticLocator) CurrentPosition(_ context.Context) (model.Location, error) {
	return model.Location{Lat: s.Lat, Lon: s.Lon}, nil
}
