package visualize

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":      PNG,
		".png":  PNG,
		"JPG":   JPEG,
		".jpeg": JPEG,
		"bmp":   BMP,
		".tif":  TIFF,
		"tiff":  TIFF,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat(".gif")
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	img := newCanvas(8, 4)
	for _, f := range []Format{PNG, JPEG, BMP, TIFF} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, img, f), f)

		decoded, _, err := image.Decode(&buf)
		require.NoError(t, err, f)
		assert.Equal(t, img.Bounds(), decoded.Bounds(), f)
	}
}

func TestSaveImageByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "page.bmp")
	require.NoError(t, SaveImage(newCanvas(3, 3), path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BM", string(b[:2]))

	assert.Error(t, SaveImage(newCanvas(3, 3), filepath.Join(dir, "page.gif")))
}
