package imaging

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ErrReleased is returned when an operation is attempted on a released handle.
var ErrReleased = errors.New("image handle has been released")

// Handle owns a mutable copy of decoded pixels.
//
// A Handle is not safe for concurrent use. Once released it holds no pixels
// and every operation on it fails with ErrReleased.
type Handle struct {
	img *image.NRGBA
}

// NewHandle copies img into a new handle. The source image is never modified.
func NewHandle(img image.Image) *Handle {
	return &Handle{img: imaging.Clone(img)}
}

// Image returns the current pixels, or nil once the handle is released.
func (h *Handle) Image() image.Image {
	if h == nil || h.img == nil {
		return nil
	}
	return h.img
}

// Bounds returns the pixel bounds of the handle.
func (h *Handle) Bounds() image.Rectangle {
	if h == nil || h.img == nil {
		return image.Rectangle{}
	}
	return h.img.Bounds()
}

// Duplicate returns an independent copy of the handle.
func (h *Handle) Duplicate() (*Handle, error) {
	if h.Released() {
		return nil, ErrReleased
	}
	return &Handle{img: imaging.Clone(h.img)}, nil
}

// Release drops the pixels held by the handle. Releasing twice is a no-op.
func (h *Handle) Release() {
	if h != nil {
		h.img = nil
	}
}

// Released reports whether the handle has been released.
func (h *Handle) Released() bool {
	return h == nil || h.img == nil
}

func (h *Handle) replace(img *image.NRGBA) {
	h.img = img
}
