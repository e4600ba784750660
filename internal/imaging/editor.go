package imaging

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/ironsheep/image-variants/internal/storage"
)

var (
	// ErrNoResize is returned by Resize when the geometry resolver decides the
	// image should not be resized (it would not shrink on any axis).
	ErrNoResize = errors.New("image resize not needed")

	// ErrInvalidQuality is returned by SetQuality for values outside 1-100.
	ErrInvalidQuality = errors.New("quality must be between 1 and 100")

	// ErrNoSaver is returned by Save when the editor was built without a saver.
	ErrNoSaver = errors.New("editor has no saver")
)

// Size is a logical image size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResizeOutcome reports what a successful Resize did.
type ResizeOutcome int

const (
	// Resized means pixels were sampled into a new image.
	Resized ResizeOutcome = iota
	// NoOp means the image already had the requested size.
	NoOp
)

func (o ResizeOutcome) String() string {
	if o == NoOp {
		return "noop"
	}
	return "resized"
}

// Change is an editing operation. Only {"type": "filter"} changes are acted on.
type Change struct {
	Type   string `json:"type"`
	Filter string `json:"filter,omitempty"`
}

// EditorOptions configures an Editor.
type EditorOptions struct {
	// Sampler executes resize plans. Defaults to the imaging engine.
	Sampler Sampler

	// Filters resolves filter names. Defaults to DefaultFilters().
	Filters *FilterSet

	// Saver persists variants. Save fails with ErrNoSaver when nil.
	Saver storage.Saver

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger

	// Quality is the initial output quality. Defaults to storage.DefaultQuality.
	Quality int

	// BaseName and Format name saved variants ("<base>-<w>x<h>.<format>").
	BaseName string
	Format   string
}

// Editor holds the working state for one source image: the current handle,
// its logical size and the output quality.
//
// An Editor is not safe for concurrent use. Run at most one multi-size
// pipeline against an editor at a time.
type Editor struct {
	sampler  Sampler
	filters  *FilterSet
	saver    storage.Saver
	logger   *zap.Logger
	baseName string
	format   string

	handle  *Handle
	size    Size
	quality int
}

// NewEditor creates an editor working on a copy of img.
func NewEditor(img image.Image, opts EditorOptions) (*Editor, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot edit an empty image")
	}

	if opts.Sampler == nil {
		opts.Sampler = SamplerFunc(sampleImaging)
	}
	if opts.Filters == nil {
		opts.Filters = DefaultFilters()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Quality == 0 {
		opts.Quality = storage.DefaultQuality
	}
	if opts.BaseName == "" {
		opts.BaseName = "image"
	}
	if opts.Format == "" {
		opts.Format = "jpg"
	}

	e := &Editor{
		sampler:  opts.Sampler,
		filters:  opts.Filters,
		saver:    opts.Saver,
		logger:   opts.Logger,
		baseName: opts.BaseName,
		format:   opts.Format,
		handle:   NewHandle(img),
	}
	b := e.handle.Bounds()
	e.size = Size{Width: b.Dx(), Height: b.Dy()}

	if err := e.SetQuality(opts.Quality); err != nil {
		return nil, err
	}
	return e, nil
}

// OpenEditor decodes the file at path (honouring EXIF orientation) and
// creates an editor for it. BaseName and Format default to the file's name
// and extension.
func OpenEditor(path string, opts EditorOptions) (*Editor, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	return NewEditor(img, namedAfter(path, opts))
}

// namedAfter fills BaseName and Format from path when they are unset.
func namedAfter(path string, opts EditorOptions) EditorOptions {
	ext := filepath.Ext(path)
	if opts.BaseName == "" {
		opts.BaseName = strings.TrimSuffix(filepath.Base(path), ext)
	}
	if opts.Format == "" {
		opts.Format = strings.TrimPrefix(ext, ".")
	}
	return opts
}

// Handle returns the current working handle.
func (e *Editor) Handle() *Handle {
	return e.handle
}

// SetHandle replaces the working handle. The size is not changed.
func (e *Editor) SetHandle(h *Handle) {
	e.handle = h
}

// Size returns the logical size of the working image.
func (e *Editor) Size() Size {
	return e.size
}

// SetSize overrides the logical size.
func (e *Editor) SetSize(s Size) {
	e.size = s
}

// Quality returns the output quality.
func (e *Editor) Quality() int {
	return e.quality
}

// SetQuality sets the output quality (1-100).
func (e *Editor) SetQuality(q int) error {
	if q < 1 || q > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuality, q)
	}
	e.quality = q
	return nil
}

// Filters returns the filter set used by ApplyFilter.
func (e *Editor) Filters() *FilterSet {
	return e.filters
}

// Resize scales the working image to fit maxW x maxH (or fill it, in crop
// mode). A zero side is derived from the other. override, when non-nil,
// tightens the geometry for this call only.
//
// Resize returns NoOp when the image already has exactly the requested size,
// and an error wrapping ErrNoResize when the geometry resolver declines the
// resize.
func (e *Editor) Resize(maxW, maxH int, crop Crop, override *DimensionOverride) (ResizeOutcome, error) {
	if e.handle.Released() {
		return Resized, ErrReleased
	}
	if e.size.Width == maxW && e.size.Height == maxH {
		return NoOp, nil
	}

	plan, ok := ResolveDimensions(e.size.Width, e.size.Height, maxW, maxH, crop, override.zoom())
	if !ok {
		return Resized, fmt.Errorf("%w: %dx%d into %dx%d %s", ErrNoResize, e.size.Width, e.size.Height, maxW, maxH, crop)
	}

	out, err := e.sampler.Sample(e.handle.Image(), plan)
	if err != nil {
		return Resized, fmt.Errorf("failed to sample image: %w", err)
	}

	e.logger.Debug("resized",
		zap.Int("source_x", plan.SourceX),
		zap.Int("source_y", plan.SourceY),
		zap.Int("source_w", plan.SourceW),
		zap.Int("source_h", plan.SourceH),
		zap.Int("dest_w", plan.DestW),
		zap.Int("dest_h", plan.DestH),
	)

	e.handle.replace(out)
	b := out.Bounds()
	e.size = Size{Width: b.Dx(), Height: b.Dy()}
	return Resized, nil
}

// ApplyFilter runs the named filter on the working image. Unknown names and
// released handles are ignored; the return value reports whether the filter
// ran.
func (e *Editor) ApplyFilter(name string) bool {
	if e.handle.Released() {
		return false
	}
	f, ok := e.filters.Lookup(name)
	if !ok {
		return false
	}
	e.handle.replace(f.Apply(e.handle.Image()))
	return true
}

// ApplyChanges applies every filter change in order and returns the names of
// the filters that ran.
func (e *Editor) ApplyChanges(changes []Change) []string {
	var applied []string
	for _, c := range changes {
		if c.Type != "filter" || c.Filter == "" {
			continue
		}
		if e.ApplyFilter(c.Filter) {
			applied = append(applied, c.Filter)
		}
	}
	return applied
}

// Save persists the working image through the configured saver.
func (e *Editor) Save(ctx context.Context) (*storage.Saved, error) {
	if e.handle.Released() {
		return nil, ErrReleased
	}
	if e.saver == nil {
		return nil, ErrNoSaver
	}
	return e.saver.Save(ctx, storage.SaveRequest{
		Image:    e.handle.Image(),
		BaseName: e.baseName,
		Format:   e.format,
		Quality:  e.quality,
	})
}
