package query

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/hydrosmart/reporter/internal/types"
)

var (
	tracer = otel.Tracer("github.com/hydrosmart/reporter/internal/query")
	meter  = otel.Meter("github.com/hydrosmart/reporter/internal/query")
)

// Multipart field names expected by the endpoint
const (
	FieldImage       = "myimg"
	FieldDescription = "description"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
)

const Path = "/api/query"

// One complete draft, ready to send
type Submission struct {
	Image       types.Image
	Description string
	Location    types.Location
}

//go:generate mockgen -destination ./mock/mock.go -package mock . Submitter

// Sends one submission with exactly one request. Implementations never retry.
type Submitter interface {
	Submit(ctx context.Context, submission Submission) (*types.QueryResponse, error)
}

// The endpoint answered with a non-2xx status
type RejectedError struct {
	// Server provided message, empty when the body had none
	Message    string
	StatusCode int
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("submission rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("submission rejected with status %d: %s", e.StatusCode, e.Message)
}

// No usable response: transport failure or an unreadable body
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network failure: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
