package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrosmart/reporter/internal/hash"
	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/types"
)

// Ensure HTTPSubmitter implements Submitter interface.
var _ Submitter = (*HTTPSubmitter)(nil)

type HTTPSubmitter struct {
	client   *http.Client
	endpoint *url.URL
	attempts metric.Int64Counter
}

// `endpoint` is the API base URL; submissions go to `endpoint`/api/query
func NewHTTPSubmitter(client *http.Client, endpoint string) (*HTTPSubmitter, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}

	attempts, err := meter.Int64Counter("hydrosmart.submissions",
		metric.WithDescription("Submission requests by outcome"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission counter: %w", err)
	}

	return &HTTPSubmitter{
		client:   client,
		endpoint: base,
		attempts: attempts,
	}, nil
}

func (s *HTTPSubmitter) count(ctx context.Context, outcome string) {
	s.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (s *HTTPSubmitter) URL() string {
	return s.endpoint.JoinPath(Path).String()
}

func (s *HTTPSubmitter) Submit(
	ctx context.Context,
	submission Submission,
) (*types.QueryResponse, error) {
	requestID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "HTTPSubmitter.Submit", trace.WithAttributes(
		attribute.String("url", s.URL()),
		attribute.String("requestID", requestID),
		attribute.Int("image.size", submission.Image.Size()),
		attribute.String("image.digest", hash.Short(hash.Image(submission.Image))),
	))
	defer span.End()

	body, contentType, err := encode(submission)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode submission")
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL(), body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return nil, fmt.Errorf("failed to construct request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	logger.Logger.DebugContext(ctx, "sending submission",
		"url", s.URL(),
		"requestID", requestID,
		"size", body.Len(),
	)

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send request")
		s.count(ctx, "network")
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("statusCode", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read response body")
		s.count(ctx, "network")
		return nil, &NetworkError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	accepted := resp.StatusCode >= 200 && resp.StatusCode < 300

	var data types.QueryResponse
	decodeErr := decodeBody(raw, &data)

	if !accepted {
		// an unreadable rejection body only loses the message
		err := &RejectedError{StatusCode: resp.StatusCode, Message: data.Message}
		logger.Logger.WarnContext(ctx, "submission rejected",
			"requestID", requestID,
			"code", resp.StatusCode,
			"message", data.Message,
			"decodeError", decodeErr,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission rejected")
		s.count(ctx, "rejected")
		return nil, err
	}

	// an accepted status with a body that is not JSON cannot be trusted
	if decodeErr != nil {
		span.RecordError(decodeErr)
		span.SetStatus(codes.Error, "failed to decode response body")
		s.count(ctx, "network")
		return nil, &NetworkError{Err: fmt.Errorf(
			"failed to decode response body (status %d): %w", resp.StatusCode, decodeErr,
		)}
	}

	logger.Logger.InfoContext(ctx, "submission accepted", "requestID", requestID, "id", data.ID)
	s.count(ctx, "accepted")

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "submitted")
	return &data, nil
}

// Any JSON document is a readable reply; only an object can carry fields.
// Empty bodies decode to the zero response.
func decodeBody(raw []byte, data *types.QueryResponse) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if !json.Valid(raw) {
		return errors.New("response body is not JSON")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// arrays and scalars are valid replies without fields
		return nil
	}
	data.Message = textOf(fields["message"])
	data.ID = textOf(fields["id"])
	return nil
}

// Renders a JSON value the way it would read in a banner. Strings are
// unquoted; null, false, 0 and "" count as absent.
func textOf(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}

	switch string(raw) {
	case "null", "false":
		return ""
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil && num == 0 {
		return ""
	}
	return string(raw)
}

func encode(submission Submission) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	name := submission.Image.Name
	if name == "" {
		name = "image"
	}
	contentType := submission.Image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		FieldImage, escapeQuotes(name),
	))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(submission.Image.Data); err != nil {
		return nil, "", err
	}

	fields := []struct{ name, value string }{
		{FieldDescription, submission.Description},
		{FieldLatitude, formatCoordinate(submission.Location.Latitude)},
		{FieldLongitude, formatCoordinate(submission.Location.Longitude)},
	}
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return body, w.FormDataContentType(), nil
}

// Shortest representation that round-trips, the way a number is stringified
// into a form field
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
