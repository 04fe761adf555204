package preview_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrosmart/reporter/internal/preview"
	"github.com/hydrosmart/reporter/internal/types"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 0, G: 120, B: 255, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img), "failed to encode png")
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, url string) (string, []byte) {
	t.Helper()

	rest, ok := strings.CutPrefix(url, "data:")
	require.True(t, ok, "missing data: prefix")
	contentType, payload, ok := strings.Cut(rest, ";base64,")
	require.True(t, ok, "missing base64 marker")

	data, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err, "payload should be base64")
	return contentType, data
}

func TestDataURL(t *testing.T) {
	ctx := context.Background()

	t.Run("Raw", func(t *testing.T) {
		data := pngBytes(t, 4, 4)
		url, err := preview.DataURL{}.Preview(ctx, types.Image{Name: "a.png", ContentType: "image/png", Data: data})
		require.NoError(t, err, "failed to encode")

		contentType, decoded := decodeDataURL(t, url)
		assert.Equal(t, "image/png", contentType)
		assert.Equal(t, data, decoded, "raw preview must carry the original bytes")
	})

	t.Run("SniffedType", func(t *testing.T) {
		url, err := preview.DataURL{}.Preview(ctx, types.Image{Data: pngBytes(t, 2, 2)})
		require.NoError(t, err, "failed to encode")
		assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"), "type should be sniffed")
	})

	t.Run("Thumbnail", func(t *testing.T) {
		url, err := preview.DataURL{MaxDimension: 16}.Preview(ctx, types.Image{Data: pngBytes(t, 64, 32)})
		require.NoError(t, err, "failed to encode")

		contentType, decoded := decodeDataURL(t, url)
		assert.Equal(t, "image/jpeg", contentType)

		img, err := imaging.Decode(bytes.NewReader(decoded))
		require.NoError(t, err, "thumbnail should decode")
		assert.Equal(t, 16, img.Bounds().Dx())
		assert.Equal(t, 8, img.Bounds().Dy())
	})

	t.Run("SmallerThanBox", func(t *testing.T) {
		data := pngBytes(t, 8, 8)
		url, err := preview.DataURL{MaxDimension: 16}.Preview(ctx, types.Image{ContentType: "image/png", Data: data})
		require.NoError(t, err, "failed to encode")

		_, decoded := decodeDataURL(t, url)
		assert.Equal(t, data, decoded, "small images are not re-encoded")
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := preview.DataURL{}.Preview(ctx, types.Image{})
		require.ErrorIs(t, err, preview.ErrEmptyImage)
	})

	t.Run("Undecodable", func(t *testing.T) {
		_, err := preview.DataURL{MaxDimension: 16}.Preview(ctx, types.Image{Data: []byte("not an image")})
		require.Error(t, err, "thumbnailing garbage must fail")
	})
}
