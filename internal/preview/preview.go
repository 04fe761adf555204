package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrosmart/reporter/internal/types"
)

var tracer = otel.Tracer("github.com/hydrosmart/reporter/internal/preview")

var ErrEmptyImage = errors.New("image has no content")

//go:generate mockgen -destination ./mock/mock.go -package mock . Previewer

// Converts a selected image into a displayable encoded form
type Previewer interface {
	Preview(ctx context.Context, image types.Image) (string, error)
}

// Ensure DataURL implements Previewer interface.
var _ Previewer = DataURL{}

// Encodes images as `data:` URLs.
//
// With MaxDimension > 0 the image is first fitted inside a
// MaxDimension x MaxDimension box and re-encoded as JPEG; images already
// within the box are encoded untouched.
type DataURL struct {
	MaxDimension int
}

func (d DataURL) Preview(ctx context.Context, image types.Image) (string, error) {
	_, span := tracer.Start(ctx, "DataURL.Preview", trace.WithAttributes(
		attribute.String("name", image.Name),
		attribute.Int("size", len(image.Data)),
		attribute.Int("maxDimension", d.MaxDimension),
	))
	defer span.End()

	if len(image.Data) == 0 {
		span.RecordError(ErrEmptyImage)
		span.SetStatus(codes.Error, "empty image")
		return "", ErrEmptyImage
	}

	contentType := image.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(image.Data).String()
	}
	data := image.Data

	if d.MaxDimension > 0 {
		thumb, resized, err := d.thumbnail(data)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to build thumbnail")
			return "", err
		}
		if resized {
			data = thumb
			contentType = "image/jpeg"
		}
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "encoded preview")
	return Encode(contentType, data), nil
}

func (d DataURL) thumbnail(data []byte) ([]byte, bool, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= d.MaxDimension && bounds.Dy() <= d.MaxDimension {
		return nil, false, nil
	}

	fitted := imaging.Fit(img, d.MaxDimension, d.MaxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, false, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), true, nil
}

func Encode(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
