package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Default hysteresis thresholds used by the edge filter.
const (
	EdgeThresholdLow  = 50
	EdgeThresholdHigh = 150
)

// edgeSigma is the Gaussian smoothing applied before gradients are taken.
const edgeSigma = 1.4

// field is a dense row-major grid of intensities in [0, 1].
type field struct {
	w, h int
	v    []float64
}

func newField(w, h int) *field {
	return &field{w: w, h: h, v: make([]float64, w*h)}
}

// at reads a value, clamping coordinates to the grid.
func (f *field) at(x, y int) float64 {
	return f.v[clamp(y, 0, f.h-1)*f.w+clamp(x, 0, f.w-1)]
}

func (f *field) set(x, y int, v float64) {
	f.v[y*f.w+x] = v
}

// intensity converts img to a smoothed luminance field.
func intensity(img image.Image, sigma float64) *field {
	gray := imaging.Grayscale(img)
	if sigma > 0 {
		gray = imaging.Blur(gray, sigma)
	}

	b := gray.Bounds()
	f := newField(b.Dx(), b.Dy())
	for y := 0; y < f.h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < f.w; x++ {
			f.set(x, y, float64(row[x*4])/255.0)
		}
	}
	return f
}

// CannyEdges returns a Canny edge map of img: white pixels (255) mark edges,
// black pixels mark everything else. The result is anchored at the origin.
//
// Luminance is smoothed with a Gaussian before Sobel gradients are taken;
// gradients are thinned to local maxima along their direction and kept when
// they exceed thresholdHigh, or exceed thresholdLow next to a strong pixel.
// Thresholds are on the 0-255 scale.
func CannyEdges(img image.Image, thresholdLow, thresholdHigh int) *image.Gray {
	lum := intensity(img, edgeSigma)
	mag, sector := sobel(lum)
	thin := suppress(mag, sector)

	low := float64(thresholdLow) / 255.0
	high := float64(thresholdHigh) / 255.0

	out := image.NewGray(image.Rect(0, 0, lum.w, lum.h))
	for y := 0; y < lum.h; y++ {
		for x := 0; x < lum.w; x++ {
			v := thin.at(x, y)
			if v >= high || (v >= low && hasStrongNeighbor(thin, x, y, high)) {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// sobel returns the gradient magnitude and its direction quantized to one of
// four sectors: 0 horizontal, 1 rising diagonal, 2 vertical, 3 falling
// diagonal.
func sobel(f *field) (*field, []uint8) {
	mag := newField(f.w, f.h)
	sector := make([]uint8, f.w*f.h)

	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			gx := f.at(x+1, y-1) + 2*f.at(x+1, y) + f.at(x+1, y+1) -
				f.at(x-1, y-1) - 2*f.at(x-1, y) - f.at(x-1, y+1)
			gy := f.at(x-1, y+1) + 2*f.at(x, y+1) + f.at(x+1, y+1) -
				f.at(x-1, y-1) - 2*f.at(x, y-1) - f.at(x+1, y-1)

			mag.set(x, y, math.Hypot(gx, gy))

			deg := math.Atan2(gy, gx) * 180 / math.Pi
			if deg < 0 {
				deg += 180
			}
			switch {
			case deg < 22.5 || deg >= 157.5:
				sector[y*f.w+x] = 0
			case deg < 67.5:
				sector[y*f.w+x] = 1
			case deg < 112.5:
				sector[y*f.w+x] = 2
			default:
				sector[y*f.w+x] = 3
			}
		}
	}
	return mag, sector
}

// suppress keeps a magnitude only where it is a local maximum across the
// gradient direction. The one pixel border is always cleared.
func suppress(mag *field, sector []uint8) *field {
	out := newField(mag.w, mag.h)
	for y := 1; y < mag.h-1; y++ {
		for x := 1; x < mag.w-1; x++ {
			var n1, n2 float64
			switch sector[y*mag.w+x] {
			case 0:
				n1, n2 = mag.at(x-1, y), mag.at(x+1, y)
			case 1:
				n1, n2 = mag.at(x-1, y-1), mag.at(x+1, y+1)
			case 2:
				n1, n2 = mag.at(x, y-1), mag.at(x, y+1)
			default:
				n1, n2 = mag.at(x+1, y-1), mag.at(x-1, y+1)
			}
			if v := mag.at(x, y); v >= n1 && v >= n2 {
				out.set(x, y, v)
			}
		}
	}
	return out
}

func hasStrongNeighbor(f *field, x, y int, high float64) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if f.at(x+dx, y+dy) >= high {
				return true
			}
		}
	}
	return false
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
