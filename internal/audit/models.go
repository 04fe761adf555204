package audit

var schemaVersion = "0.1.0"
var logContext = "audit"

// Milliseconds since the unix epoch
type UnixMilli int64

type Disposition string

const (
	DispositionNeutral Disposition = "neutral"
	DispositionGood    Disposition = "good"
	DispositionBad     Disposition = "bad"
)

type EventType string

const (
	EvtLocationCaptured    EventType = "location_captured"
	EvtLocationFailed      EventType = "location_failed"
	EvtSubmissionInvalid   EventType = "submission_invalid"
	EvtSubmissionAccepted  EventType = "submission_accepted"
	EvtSubmissionRejected  EventType = "submission_rejected"
	EvtSubmissionFailed    EventType = "submission_failed"
)

type Message struct {
	SessionID     string      `json:"session_id"  validate:"required"`
	LogContext    string      `json:"log_context" validate:"required"`
	SchemaVersion string      `json:"version"     validate:"required"`
	Disposition   Disposition `json:"disposition" validate:"required"`
	Type          EventType   `json:"event_type"  validate:"required"`

	Timestamp UnixMilli `json:"timestamp" validate:"required"`
}

type LocationEvent struct {
	Latitude  *string `json:"latitude,omitempty"`
	Longitude *string `json:"longitude,omitempty"`
	Banner    string  `json:"banner"              validate:"required"`
}

type Location struct {
	Event LocationEvent `json:"event" validate:"required"`
	Message
}

type SubmissionEvent struct {
	Field      *string `json:"field,omitempty"`
	QueryID    *string `json:"query_id,omitempty"`
	StatusCode *int    `json:"status_code,omitempty"`
	ImageName  string  `json:"image_name"`
	ImageHash  string  `json:"image_sha256"`
	Banner     string  `json:"banner"                validate:"required"`
}

type Submission struct {
	Event SubmissionEvent `json:"event" validate:"required"`
	Message
}
