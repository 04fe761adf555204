package geo

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"

	"github.com/hydrosmart/reporter/internal/types"
)

var tracer = otel.Tracer("github.com/hydrosmart/reporter/internal/geo")

var (
	// The device offers no way to acquire a position
	ErrUnsupported = errors.New("geolocation not supported")
	// A position could not be acquired: denied, disabled or timed out
	ErrUnavailable = errors.New("position unavailable")
)

//go:generate mockgen -destination ./mock/mock.go -package mock . Locator

// One-shot current position query. No continuous tracking.
type Locator interface {
	Locate(ctx context.Context) (types.Location, error)
}

// Adapts a plain function to Locator
type Func func(ctx context.Context) (types.Location, error)

func (f Func) Locate(ctx context.Context) (types.Location, error) {
	return f(ctx)
}
