package imaging

import (
	"image"
	"image/color"
	"sort"
	"sync"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Filter names understood by DefaultFilters.
const (
	FilterGrayscale     = "grayscale"
	FilterSepia         = "sepia"
	FilterContrast      = "contrast"
	FilterEdge          = "edge"
	FilterEmboss        = "emboss"
	FilterGaussianBlur  = "gaussian_blur"
	FilterSelectiveBlur = "selective_blur"
	FilterNegative      = "negative"
)

// Filter is an opaque transform applied to the pixels of an editor handle.
type Filter interface {
	Apply(img image.Image) *image.NRGBA
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(img image.Image) *image.NRGBA

// Apply calls f(img).
func (f FilterFunc) Apply(img image.Image) *image.NRGBA {
	return f(img)
}

// FilterSet maps filter names to filters. It is safe for concurrent use.
type FilterSet struct {
	mu      sync.RWMutex
	filters map[string]Filter
}

// NewFilterSet returns an empty filter set.
func NewFilterSet() *FilterSet {
	return &FilterSet{filters: make(map[string]Filter)}
}

// DefaultFilters returns a filter set holding the built-in filters.
func DefaultFilters() *FilterSet {
	s := NewFilterSet()
	s.Register(FilterGrayscale, FilterFunc(grayscale))
	s.Register(FilterSepia, FilterFunc(func(img image.Image) *image.NRGBA {
		return imaging.Clone(effect.Sepia(img))
	}))
	s.Register(FilterContrast, FilterFunc(func(img image.Image) *image.NRGBA {
		return imaging.Clone(adjust.Contrast(img, 0.2))
	}))
	s.Register(FilterEdge, FilterFunc(func(img image.Image) *image.NRGBA {
		return imaging.Clone(CannyEdges(img, EdgeThresholdLow, EdgeThresholdHigh))
	}))
	s.Register(FilterEmboss, FilterFunc(func(img image.Image) *image.NRGBA {
		return imaging.Clone(effect.Emboss(img))
	}))
	s.Register(FilterGaussianBlur, FilterFunc(func(img image.Image) *image.NRGBA {
		return imaging.Blur(img, 3)
	}))
	s.Register(FilterSelectiveBlur, FilterFunc(func(img image.Image) *image.NRGBA {
		return imaging.Clone(blur.Box(img, 3))
	}))
	s.Register(FilterNegative, FilterFunc(func(img image.Image) *image.NRGBA {
		return imaging.Invert(img)
	}))
	return s
}

// Register adds or replaces the filter stored under name.
func (s *FilterSet) Register(name string, f Filter) {
	s.mu.Lock()
	s.filters[name] = f
	s.mu.Unlock()
}

// Lookup returns the filter stored under name.
func (s *FilterSet) Lookup(name string) (Filter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.filters[name]
	return f, ok
}

// Names returns the registered filter names in sorted order.
func (s *FilterSet) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.filters))
	for name := range s.filters {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// grayscale maps every pixel to its CIE L* lightness, keeping alpha.
func grayscale(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := src.NRGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			c, _ := colorful.MakeColor(color.NRGBA{R: px.R, G: px.G, B: px.B, A: 255})
			l, _, _ := c.Lab()
			r, g, b := colorful.Lab(l, 0, 0).Clamped().RGB255()
			src.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: px.A})
		}
	}
	return src
}
