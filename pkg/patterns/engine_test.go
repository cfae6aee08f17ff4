package patterns

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgvault/pkg/logger"
	"imgvault/pkg/storage"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractEmptyStore(t *testing.T) {
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	engine := New(store, logger.Nop())
	count, err := engine.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestExtractCountsDecodableOnly(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(dir)
	require.NoError(t, err)

	_, _, err = store.Save(encodePNG(t, 16, 16))
	require.NoError(t, err)
	_, _, err = store.Save(encodePNG(t, 128, 32))
	require.NoError(t, err)

	// A corrupt blob in the store must be skipped, not fail the scan.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deadbeef.jpg"), []byte("garbage"), 0644))

	engine := New(store, logger.Nop())
	count, err := engine.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestExtractRescansEveryCall(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(dir)
	require.NoError(t, err)

	engine := New(store, logger.Nop())

	count, err := engine.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, _, err = store.Save(encodePNG(t, 8, 8))
	require.NoError(t, err)

	// No in-process cache: the new file is picked up by the next scan.
	count, err = engine.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSummaryString(t *testing.T) {
	assert.Equal(t, "0 patterns internalized.", SummaryString(0))
	assert.Equal(t, "7 patterns internalized.", SummaryString(7))
}
