package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrosmart/reporter/internal/geo"
	"github.com/hydrosmart/reporter/internal/types"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		l, err := geo.NewStatic(12.5, -70.25)
		require.NoError(t, err, "failed to build static locator")

		loc, err := l.Locate(ctx)
		require.NoError(t, err, "failed to locate")
		assert.Equal(t, types.Location{Latitude: 12.5, Longitude: -70.25}, loc)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := geo.NewStatic(91, 0)
		require.Error(t, err, "latitude out of range")

		_, err = geo.NewStatic(0, 181)
		require.Error(t, err, "longitude out of range")
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := geo.Static{}.Locate(cctx)
		require.ErrorIs(t, err, geo.ErrUnavailable)
	})
}

func TestUnsupported(t *testing.T) {
	_, err := geo.Unsupported{}.Locate(context.Background())
	require.ErrorIs(t, err, geo.ErrUnsupported)
}

func TestIPLocator(t *testing.T) {
	ctx := context.Background()

	e := echo.New()
	e.GET("/ok", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status": "success",
			"lat":    51.5074,
			"lon":    -0.1278,
		})
	})
	e.GET("/fail", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "fail",
			"message": "private range",
		})
	})
	e.GET("/garbage", func(c echo.Context) error {
		return c.String(http.StatusOK, "not json")
	})

	server := httptest.NewServer(e)
	defer server.Close()

	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil

	t.Run("Success", func(t *testing.T) {
		l := geo.NewIPLocator(client.StandardClient(), server.URL+"/ok")
		loc, err := l.Locate(ctx)
		require.NoError(t, err, "failed to locate")
		assert.Equal(t, types.Location{Latitude: 51.5074, Longitude: -0.1278}, loc)
	})

	t.Run("LookupFailed", func(t *testing.T) {
		l := geo.NewIPLocator(client.StandardClient(), server.URL+"/fail")
		_, err := l.Locate(ctx)
		require.ErrorIs(t, err, geo.ErrUnavailable)
		assert.Contains(t, err.Error(), "private range")
	})

	t.Run("BadBody", func(t *testing.T) {
		l := geo.NewIPLocator(client.StandardClient(), server.URL+"/garbage")
		_, err := l.Locate(ctx)
		require.ErrorIs(t, err, geo.ErrUnavailable)
	})

	t.Run("NotFound", func(t *testing.T) {
		l := geo.NewIPLocator(client.StandardClient(), server.URL+"/nothing")
		_, err := l.Locate(ctx)
		require.ErrorIs(t, err, geo.ErrUnavailable)
	})
}

func TestFunc(t *testing.T) {
	want := types.Location{Latitude: 1, Longitude: 2}
	l := geo.Func(func(context.Context) (types.Location, error) { return want, nil })

	got, err := l.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
