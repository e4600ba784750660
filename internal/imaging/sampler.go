package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Sampler engine names accepted by NewSampler.
const (
	EngineImaging = "imaging"
	EngineXDraw   = "xdraw"
	EngineNfnt    = "nfnt"
	EngineBild    = "bild"
)

// Sampler executes a Plan: it reads the plan's source rectangle from src and
// scales it into a new image of the plan's destination size.
type Sampler interface {
	Sample(src image.Image, plan Plan) (*image.NRGBA, error)
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func(src image.Image, plan Plan) (*image.NRGBA, error)

// Sample calls f(src, plan).
func (f SamplerFunc) Sample(src image.Image, plan Plan) (*image.NRGBA, error) {
	return f(src, plan)
}

var samplers = map[string]Sampler{
	EngineImaging: SamplerFunc(sampleImaging),
	EngineXDraw:   SamplerFunc(sampleXDraw),
	EngineNfnt:    SamplerFunc(sampleNfnt),
	EngineBild:    SamplerFunc(sampleBild),
}

// NewSampler returns the sampler registered under engine. An empty name
// selects the imaging (Lanczos) engine.
func NewSampler(engine string) (Sampler, error) {
	if engine == "" {
		engine = EngineImaging
	}
	s, ok := samplers[engine]
	if !ok {
		return nil, fmt.Errorf("unknown resize engine: %s", engine)
	}
	return s, nil
}

// SamplerEngines lists the registered engine names in sorted order.
func SamplerEngines() []string {
	names := make([]string, 0, len(samplers))
	for name := range samplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sourceRect clips the plan's source rectangle to the image bounds. Zoomed
// plans may reach past the bottom edge since both offsets follow the width.
func sourceRect(src image.Image, plan Plan) (image.Rectangle, error) {
	bounds := src.Bounds()
	rect := plan.SourceRect(bounds.Min).Intersect(bounds)
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("source region (%d,%d)+%dx%d outside image bounds %dx%d",
			plan.SourceX, plan.SourceY, plan.SourceW, plan.SourceH, bounds.Dx(), bounds.Dy())
	}
	if plan.DestW < 1 || plan.DestH < 1 {
		return image.Rectangle{}, fmt.Errorf("invalid destination size %dx%d", plan.DestW, plan.DestH)
	}
	return rect, nil
}

func sampleImaging(src image.Image, plan Plan) (*image.NRGBA, error) {
	rect, err := sourceRect(src, plan)
	if err != nil {
		return nil, err
	}
	cropped := imaging.Crop(src, rect)
	return imaging.Resize(cropped, plan.DestW, plan.DestH, imaging.Lanczos), nil
}

func sampleXDraw(src image.Image, plan Plan) (*image.NRGBA, error) {
	rect, err := sourceRect(src, plan)
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, plan.DestX+plan.DestW, plan.DestY+plan.DestH))
	xdraw.CatmullRom.Scale(dst, plan.DestRect(), src, rect, xdraw.Src, nil)
	return dst, nil
}

func sampleNfnt(src image.Image, plan Plan) (*image.NRGBA, error) {
	rect, err := sourceRect(src, plan)
	if err != nil {
		return nil, err
	}
	cropped := imaging.Crop(src, rect)
	scaled := resize.Resize(uint(plan.DestW), uint(plan.DestH), cropped, resize.Lanczos3)
	return imaging.Clone(scaled), nil
}

func sampleBild(src image.Image, plan Plan) (*image.NRGBA, error) {
	rect, err := sourceRect(src, plan)
	if err != nil {
		return nil, err
	}
	cropped := imaging.Crop(src, rect)
	return imaging.Clone(transform.Resize(cropped, plan.DestW, plan.DestH, transform.Lanczos)), nil
}
