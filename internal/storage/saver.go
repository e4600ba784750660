package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrNoImage is returned when a save is requested without pixels.
var ErrNoImage = errors.New("no image to save")

// DefaultQuality is the JPEG quality used when a request carries none.
const DefaultQuality = 82

// SaveRequest describes one variant to persist.
type SaveRequest struct {
	// Image holds the pixels to encode.
	Image image.Image

	// BaseName is the source file name without directory and extension.
	BaseName string

	// Format is the output file extension, e.g. "jpg" or "png".
	Format string

	// Quality is the JPEG quality (1-100). Zero selects DefaultQuality.
	Quality int
}

// Saved is the metadata returned for a persisted variant.
type Saved struct {
	Path     string `json:"path"`
	File     string `json:"file"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime-type"`
	Filesize int64  `json:"filesize"`
}

// Saver persists encoded variants.
type Saver interface {
	Save(ctx context.Context, req SaveRequest) (*Saved, error)
}

// FileName returns the variant file name: "<base>-<width>x<height>.<ext>".
func FileName(req SaveRequest) string {
	b := req.Image.Bounds()
	return fmt.Sprintf("%s-%dx%d.%s", req.BaseName, b.Dx(), b.Dy(), normalizeExt(req.Format))
}

// MimeType maps a file extension to its MIME type.
func MimeType(ext string) string {
	switch normalizeExt(ext) {
	case "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "tif":
		return "image/tiff"
	case "bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// Encode renders the request into bytes using the requested format.
func Encode(req SaveRequest) (*bytes.Buffer, error) {
	if req.Image == nil || req.Image.Bounds().Empty() {
		return nil, ErrNoImage
	}

	format, err := imaging.FormatFromExtension(normalizeExt(req.Format))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output format: %w", err)
	}

	quality := req.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, req.Image, format, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &buf, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "jpeg", "":
		return "jpg"
	case "tiff":
		return "tif"
	}
	return ext
}
