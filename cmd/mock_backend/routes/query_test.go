package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/query"
	"github.com/hydrosmart/reporter/internal/types"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(BuildEcho(logger.New(io.Discard)))
	t.Cleanup(server.Close)
	return server
}

// Posts a hand built multipart body; nil fields are left out
func postForm(t *testing.T, url string, file []byte, fields map[string]string) (int, types.Error) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if file != nil {
		part, err := mw.CreateFormFile(query.FieldImage, "photo")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+query.Path, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var data types.Error
	_ = json.NewDecoder(resp.Body).Decode(&data)
	return resp.StatusCode, data
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	server := newServer(t)

	submitter, err := query.NewHTTPSubmitter(server.Client(), server.URL)
	require.NoError(t, err)

	valid := query.Submission{
		Image:       types.Image{Name: "creek.png", ContentType: "image/png", Data: pngBytes(t)},
		Description: "dead fish along the bank",
		Location:    types.Location{Latitude: 6.5244, Longitude: 3.3792},
	}

	t.Run("Accepted", func(t *testing.T) {
		resp, err := submitter.Submit(ctx, valid)
		require.NoError(t, err)

		assert.Equal(t, "query received", resp.Message)
		_, err = uuid.Parse(resp.ID)
		assert.NoError(t, err, "id should be a uuid")
	})

	t.Run("InvalidLatitude", func(t *testing.T) {
		s := valid
		s.Location.Latitude = 123

		_, err := submitter.Submit(ctx, s)

		var rejected *query.RejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
		assert.Equal(t, "invalid latitude", rejected.Message)
	})

	t.Run("NotAnImage", func(t *testing.T) {
		s := valid
		s.Image.Data = []byte("plain text pretending to be a photo")

		_, err := submitter.Submit(ctx, s)

		var rejected *query.RejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, "bad file", rejected.Message)
	})

	t.Run("MissingImage", func(t *testing.T) {
		status, data := postForm(t, server.URL, nil, map[string]string{
			query.FieldDescription: "x",
			query.FieldLatitude:    "1",
			query.FieldLongitude:   "1",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "myimg is required", data.Message)
	})

	t.Run("MissingFields", func(t *testing.T) {
		status, data := postForm(t, server.URL, pngBytes(t), map[string]string{
			query.FieldLatitude: "1",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid description, longitude", data.Message)
		assert.Contains(t, data.Fields, "description")
		assert.Contains(t, data.Fields, "longitude")
	})

	t.Run("EmptyImage", func(t *testing.T) {
		status, data := postForm(t, server.URL, []byte{}, map[string]string{
			query.FieldDescription: "x",
			query.FieldLatitude:    "1",
			query.FieldLongitude:   "1",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, data.Fields, query.FieldImage)
	})
}

func TestHealth(t *testing.T) {
	server := newServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
