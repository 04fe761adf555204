package hash_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrosmart/reporter/internal/hash"
	"github.com/hydrosmart/reporter/internal/types"
)

// sha256("abc")
const abcSum = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestReader(t *testing.T) {
	ctx := context.Background()

	t.Run("DigestOnly", func(t *testing.T) {
		sum, err := hash.Reader(ctx, strings.NewReader("abc"), nil)
		require.NoError(t, err, "failed to hash")
		assert.Equal(t, abcSum, sum)
	})

	t.Run("CopiesContent", func(t *testing.T) {
		var buf bytes.Buffer
		sum, err := hash.Reader(ctx, strings.NewReader("abc"), &buf)
		require.NoError(t, err, "failed to hash")
		assert.Equal(t, abcSum, sum)
		assert.Equal(t, "abc", buf.String(), "content should be copied")
	})
}

func TestBuffer(t *testing.T) {
	assert.Equal(t, abcSum, hash.Buffer([]byte("abc")))
	assert.Equal(t, abcSum[:12], hash.Short(hash.Buffer([]byte("abc"))))
	assert.Equal(t, "abc", hash.Short("abc"))
}

func TestImage(t *testing.T) {
	t.Run("RecordedDigest", func(t *testing.T) {
		img := types.Image{Data: []byte("abc"), SHA256: "recorded-at-capture"}
		assert.Equal(t, "recorded-at-capture", hash.Image(img), "recorded digest should be reused")
	})

	t.Run("InMemory", func(t *testing.T) {
		assert.Equal(t, abcSum, hash.Image(types.Image{Data: []byte("abc")}))
	})
}
