package geo

import (
	"context"
	"fmt"

	"github.com/hydrosmart/reporter/internal/types"
)

// Ensure Static and Unsupported implement Locator interface.
var (
	_ Locator = Static{}
	_ Locator = Unsupported{}
)

// Always reports the same position
type Static struct {
	Location types.Location
}

func NewStatic(latitude, longitude float64) (Static, error) {
	if latitude < -90 || latitude > 90 {
		return Static{}, fmt.Errorf("latitude %v out of range", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return Static{}, fmt.Errorf("longitude %v out of range", longitude)
	}
	return Static{Location: types.Location{Latitude: latitude, Longitude: longitude}}, nil
}

func (s Static) Locate(ctx context.Context) (types.Location, error) {
	if err := ctx.Err(); err != nil {
		return types.Location{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return s.Location, nil
}

// Stand-in for a device without a positioning capability
type Unsupported struct{}

func (Unsupported) Locate(context.Context) (types.Location, error) {
	return types.Location{}, ErrUnsupported
}
