package form

import (
	"errors"

	"github.com/hydrosmart/reporter/internal/geo"
	"github.com/hydrosmart/reporter/internal/query"
)

var (
	ErrSubmitInProgress = errors.New("a submission is already in flight")
	ErrClosed           = errors.New("form is closed")
)

// Draft field names used by ValidationError
const (
	FieldImage       = "image"
	FieldDescription = "description"
	FieldLocation    = "location"
)

// The draft is incomplete. Nothing was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func locationMessage(err error) string {
	if errors.Is(err, geo.ErrUnsupported) {
		return MsgLocationUnsupported
	}
	return MsgLocationFailed
}

func submitMessage(err error) string {
	var rejected *query.RejectedError
	if errors.As(err, &rejected) {
		if rejected.Message != "" {
			return rejected.Message
		}
		return MsgSubmitFailed
	}
	return MsgNetworkFailed
}
