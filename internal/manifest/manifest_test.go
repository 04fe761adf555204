package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Write(&buf))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "HydroSmart", got["name"])
	assert.Equal(t, "HydroSmart", got["short_name"])
	assert.Equal(t, "standalone", got["display"])
	assert.Equal(t, "portrait", got["orientation"])
	assert.Equal(t, "/", got["start_url"])
	assert.Equal(t, "#ffffff", got["theme_color"])
	assert.Equal(t, "#ffffff", got["background_color"])

	icons, ok := got["icons"].([]any)
	require.True(t, ok, "icons should be a list")
	require.Len(t, icons, 2)
	assert.Equal(t, map[string]any{
		"src":   "/pwa-192x192.png",
		"sizes": "192x192",
		"type":  "image/png",
	}, icons[0])
	assert.Equal(t, map[string]any{
		"src":   "/driver512.png",
		"sizes": "512x512",
		"type":  "image/png",
	}, icons[1])
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Manifest){
		"NoIcons":        func(m *Manifest) { m.Icons = nil },
		"BadColor":       func(m *Manifest) { m.ThemeColor = "white" },
		"BadDisplay":     func(m *Manifest) { m.Display = "window" },
		"RelativeIcon":   func(m *Manifest) { m.Icons[0].Src = "pwa.png" },
		"LongShortName":  func(m *Manifest) { m.ShortName = "HydroSmartReporter" },
		"BadOrientation": func(m *Manifest) { m.Orientation = "sideways" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := Default()
			mutate(&m)

			var buf bytes.Buffer
			require.Error(t, m.Write(&buf))
			assert.Zero(t, buf.Len(), "nothing written for an invalid manifest")
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Default().Write(&buf))

		m, err := Load(&buf)
		require.NoError(t, err)
		assert.Equal(t, Default(), m)
	})

	t.Run("SchemaViolation", func(t *testing.T) {
		doc := `{
			"name": "HydroSmart",
			"short_name": "HydroSmart",
			"start_url": "/",
			"display": "window",
			"icons": [{"src": "pwa.png", "sizes": "192x192", "type": "image/png"}]
		}`

		_, err := Load(strings.NewReader(doc))

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Contains(t, schemaErr.Fields, "/display")
		assert.Contains(t, schemaErr.Fields, "/icons/0/src")
	})

	t.Run("MissingProperties", func(t *testing.T) {
		_, err := Load(strings.NewReader(`{"name": "HydroSmart"}`))

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Contains(t, err.Error(), "short_name")
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := Load(strings.NewReader("name: HydroSmart"))
		require.Error(t, err)

		var schemaErr *SchemaError
		assert.False(t, errors.As(err, &schemaErr))
	})

	t.Run("StructRules", func(t *testing.T) {
		// the schema allows a missing theme colour, the struct does not
		doc := `{
			"name": "HydroSmart",
			"short_name": "HydroSmart",
			"start_url": "/",
			"display": "standalone",
			"background_color": "#ffffff",
			"icons": [{"src": "/pwa.png", "sizes": "192x192", "type": "image/png"}]
		}`

		_, err := Load(strings.NewReader(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid manifest")
	})
}
