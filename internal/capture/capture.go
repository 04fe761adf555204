package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrosmart/reporter/internal/hash"
	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/types"
	"github.com/hydrosmart/reporter/internal/validator"
)

var tracer = otel.Tracer("github.com/hydrosmart/reporter/internal/capture")

var ErrNotImage = errors.New("selected file is not an image")

// Loads one photo from disk the way a camera/gallery picker filtered to
// `image/*` would. Only the content type is checked.
func FromFile(ctx context.Context, path string) (types.Image, error) {
	ctx, span := tracer.Start(ctx, "FromFile", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	f, err := os.Open(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open file")
		return types.Image{}, err
	}
	defer f.Close()

	var buf bytes.Buffer
	sum, err := hash.Reader(ctx, f, &buf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read file")
		return types.Image{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	image, err := FromBytes(filepath.Base(path), buf.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected file")
		return types.Image{}, fmt.Errorf("%s: %w", path, err)
	}

	image.SHA256 = sum

	logger.Logger.DebugContext(ctx, "captured image",
		"name", image.Name,
		"contentType", image.ContentType,
		"size", image.Size(),
		"digest", hash.Short(sum),
	)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "captured image")
	return image, nil
}

func FromBytes(name string, data []byte) (types.Image, error) {
	contentType := mimetype.Detect(data).String()
	if !validator.IsImageContentType(contentType) {
		return types.Image{}, fmt.Errorf("%w (detected %s)", ErrNotImage, contentType)
	}

	return types.Image{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}, nil
}
