package visualize

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image encoding
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat accepts a format name or file extension with or without the dot
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", errors.Errorf("unsupported image format %q", s)
	}
}

// FormatFor picks the format from the extension of path
func FormatFor(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext is the file extension written for f
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Encode writes img to w
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG, "":
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Errorf("unsupported image format %q", f)
	}
}

// SaveImage writes img to path in the format named by its extension,
// creating parent directories as needed
func SaveImage(img image.Image, path string) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "can't create output directory")
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "can't create %s", path)
	}

	if err := Encode(file, img, f); err != nil {
		file.Close()
		return errors.Wrapf(err, "can't encode %s", path)
	}
	return file.Close()
}
