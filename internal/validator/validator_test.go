package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSize(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.True(t, ValidateImageSize(MaxImageSize), "max size should work")
	})

	t.Run("ValidSmall", func(t *testing.T) {
		assert.True(t, ValidateImageSize(10), "small size should work")
	})

	t.Run("Empty", func(t *testing.T) {
		assert.False(t, ValidateImageSize(0), "empty file")
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.False(t, ValidateImageSize(MaxImageSize+1), "too big")
	})
}

func TestIsImageContentType(t *testing.T) {
	assert.True(t, IsImageContentType("image/png"))
	assert.True(t, IsImageContentType("IMAGE/JPEG"))
	assert.False(t, IsImageContentType("application/pdf"))
	assert.False(t, IsImageContentType(""))
}

func TestFieldNames(t *testing.T) {
	type payload struct {
		Description string  `form:"description" json:"desc" validate:"required"`
		Latitude    float64 `json:"lat"                      validate:"latitude"`
		Level       int     `mapstructure:"level"             validate:"gte=0"`
	}

	v := Create()
	err := v.Validate(payload{Latitude: 91, Level: -1})
	require.Error(t, err, "expected validation failure")

	msg := err.Error()
	assert.Contains(t, msg, "description", "form tag should win")
	assert.Contains(t, msg, "lat", "json tag should be used")
	assert.Contains(t, msg, "level", "mapstructure tag should be used")
}
