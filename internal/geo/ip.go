package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/types"
)

// Ensure IPLocator implements Locator interface.
var _ Locator = (*IPLocator)(nil)

const DefaultIPLookupURL = "http://ip-api.com/json/"

// Coarse position from an IP geolocation service answering
// `{"status": "success", "lat": .., "lon": ..}`
type IPLocator struct {
	client *http.Client
	url    string
}

func NewIPLocator(client *http.Client, url string) *IPLocator {
	if url == "" {
		url = DefaultIPLookupURL
	}
	return &IPLocator{
		client: client,
		url:    url,
	}
}

type ipLookupResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

func (l *IPLocator) Locate(ctx context.Context) (types.Location, error) {
	ctx, span := tracer.Start(ctx, "IPLocator.Locate", trace.WithAttributes(
		attribute.String("url", l.url),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return types.Location{}, fmt.Errorf("failed to construct lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send lookup request")
		return types.Location{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%w: lookup status code %d", ErrUnavailable, resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid status code")
		return types.Location{}, err
	}

	var body ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode lookup response")
		return types.Location{}, fmt.Errorf("%w: bad lookup response: %w", ErrUnavailable, err)
	}

	if body.Status != "success" || body.Lat == nil || body.Lon == nil {
		err = fmt.Errorf("%w: lookup failed: %s", ErrUnavailable, body.Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return types.Location{}, err
	}

	loc := types.Location{Latitude: *body.Lat, Longitude: *body.Lon}
	logger.Logger.DebugContext(ctx, "resolved position by ip", "location", loc.String())

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "resolved position")
	return loc, nil
}
