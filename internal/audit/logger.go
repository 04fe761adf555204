package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hydrosmart/reporter/internal/hash"
	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/types"
)

// Ties the events of one form session together
type Context struct {
	SessionID string
}

func NewContext() Context {
	return Context{SessionID: uuid.NewString()}
}

func newMessage(c Context, t EventType, disposition Disposition) Message {
	return Message{
		SessionID:     c.SessionID,
		LogContext:    logContext,
		SchemaVersion: schemaVersion,
		Disposition:   disposition,
		Type:          t,
		Timestamp:     UnixMilli(time.Now().UTC().UnixMilli()),
	}
}

func emit(event any, t EventType) {
	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error("could not serialize audit event", "eventType", t, "error", err)
		return
	}

	fmt.Println(string(evtStr))
}

func LogLocationCaptured(c Context, loc types.Location, banner string) {
	event := Location{}
	event.Message = newMessage(c, EvtLocationCaptured, DispositionGood)

	lat, lng := loc.LatitudeString(), loc.LongitudeString()
	event.Event.Latitude = &lat
	event.Event.Longitude = &lng
	event.Event.Banner = banner

	emit(event, EvtLocationCaptured)
}

func LogLocationFailed(c Context, banner string) {
	event := Location{}
	event.Message = newMessage(c, EvtLocationFailed, DispositionBad)
	event.Event.Banner = banner

	emit(event, EvtLocationFailed)
}

func submissionEvent(image *types.Image, banner string) SubmissionEvent {
	evt := SubmissionEvent{Banner: banner}
	if image != nil {
		evt.ImageName = image.Name
		evt.ImageHash = hash.Image(*image)
	}
	return evt
}

// The draft was incomplete and nothing was sent
func LogSubmissionInvalid(c Context, image *types.Image, field string, banner string) {
	event := Submission{}
	event.Message = newMessage(c, EvtSubmissionInvalid, DispositionBad)
	event.Event = submissionEvent(image, banner)
	event.Event.Field = &field

	emit(event, EvtSubmissionInvalid)
}

func LogSubmissionAccepted(
	c Context,
	image *types.Image,
	response *types.QueryResponse,
	banner string,
) {
	event := Submission{}
	event.Message = newMessage(c, EvtSubmissionAccepted, DispositionGood)
	event.Event = submissionEvent(image, banner)
	if response != nil && response.ID != "" {
		event.Event.QueryID = &response.ID
	}

	emit(event, EvtSubmissionAccepted)
}

func LogSubmissionRejected(c Context, image *types.Image, statusCode int, banner string) {
	event := Submission{}
	event.Message = newMessage(c, EvtSubmissionRejected, DispositionBad)
	event.Event = submissionEvent(image, banner)
	event.Event.StatusCode = &statusCode

	emit(event, EvtSubmissionRejected)
}

// The request never got a usable answer
func LogSubmissionFailed(c Context, image *types.Image, banner string) {
	event := Submission{}
	event.Message = newMessage(c, EvtSubmissionFailed, DispositionBad)
	event.Event = submissionEvent(image, banner)

	emit(event, EvtSubmissionFailed)
}
