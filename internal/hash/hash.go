package hash

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrosmart/reporter/internal/types"
)

var tracer = otel.Tracer("github.com/hydrosmart/reporter/internal/hash")

// Copies f into w while digesting it. w may be nil to only digest.
func Reader(ctx context.Context, f io.Reader, w io.Writer) (string, error) {
	_, span := tracer.Start(ctx, "Reader")
	defer span.End()

	h := sha256.New()
	dst := io.Writer(h)
	if w != nil {
		dst = io.MultiWriter(h, w)
	}
	if _, err := io.Copy(dst, f); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy into hasher")
		return "", err
	}

	sum := hex.EncodeToString(h.Sum(nil))

	span.AddEvent("digested", trace.WithAttributes(attribute.String("sum", sum)))

	return sum, nil
}

func Buffer(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// Digest of the image, reusing the one recorded at capture
func Image(image types.Image) string {
	if image.SHA256 != "" {
		return image.SHA256
	}
	return Buffer(image.Data)
}

// Short form used in logs and span attributes
func Short(sum string) string {
	if len(sum) <= 12 {
		return sum
	}
	return sum[:12]
}
