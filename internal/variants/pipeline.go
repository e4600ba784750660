package variants

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/image-variants/internal/imaging"
	"github.com/ironsheep/image-variants/internal/sizes"
	"github.com/ironsheep/image-variants/internal/storage"
)

var errNothingSaved = errors.New("saver returned no metadata")

// Editor is the editing surface the pipeline drives. *imaging.Editor
// implements it.
type Editor interface {
	Handle() *imaging.Handle
	SetHandle(h *imaging.Handle)
	Size() imaging.Size
	SetSize(s imaging.Size)
	Quality() int
	SetQuality(q int) error
	Resize(maxW, maxH int, crop imaging.Crop, override *imaging.DimensionOverride) (imaging.ResizeOutcome, error)
	ApplyFilter(name string) bool
	Save(ctx context.Context) (*storage.Saved, error)
}

var _ Editor = (*imaging.Editor)(nil)

// Metadata describes one produced variant. The storage path is deliberately
// absent; callers assign locations from File.
type Metadata struct {
	File     string `json:"file"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime-type"`
	Filesize int64  `json:"filesize,omitempty"`
}

func metadataFrom(saved *storage.Saved) Metadata {
	return Metadata{
		File:     saved.File,
		Width:    saved.Width,
		Height:   saved.Height,
		MimeType: saved.MimeType,
		Filesize: saved.Filesize,
	}
}

// Pipeline derives size variants from an editor's image.
type Pipeline struct {
	registry *sizes.Registry
	logger   *zap.Logger
}

// New returns a pipeline reading per-size info from registry. A nil logger
// discards output.
func New(registry *sizes.Registry, logger *zap.Logger) *Pipeline {
	if registry == nil {
		registry = sizes.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{registry: registry, logger: logger}
}

// MultiResize produces one variant per catalog entry, in catalog order, and
// returns their metadata keyed by size name.
//
// Every entry works on a fresh copy of the editor's image. Entries without
// width and height are skipped; a failed resize or save drops only that
// entry. When MultiResize returns, the editor's handle, size and quality are
// the ones it had on entry. Cancelling ctx stops before the next entry.
func (p *Pipeline) MultiResize(ctx context.Context, editor Editor, catalog sizes.Catalog) map[string]Metadata {
	log := p.logger.With(zap.String("batch", uuid.NewString()))

	metadata := make(map[string]Metadata, len(catalog))

	origHandle := editor.Handle()
	origSize := editor.Size()
	origQuality := editor.Quality()

	defer func() {
		editor.SetHandle(origHandle)
		editor.SetSize(origSize)
		_ = editor.SetQuality(origQuality)
	}()

	for _, entry := range catalog {
		if err := ctx.Err(); err != nil {
			log.Warn("multi resize interrupted", zap.Error(err), zap.Int("produced", len(metadata)))
			break
		}

		sizeLog := log.With(zap.String("size", entry.Name))

		if err := entry.Validate(); err != nil {
			sizeLog.Debug("skipping size", zap.Error(err))
			continue
		}

		md, err := p.resizeOne(ctx, sizeLog, editor, entry, origHandle, origSize, origQuality)
		if err != nil {
			if errors.Is(err, imaging.ErrNoResize) {
				sizeLog.Debug("size not produced", zap.Error(err))
			} else {
				sizeLog.Warn("size not produced", zap.Error(err))
			}
			continue
		}

		sizeLog.Debug("size produced",
			zap.String("file", md.File),
			zap.Int("width", md.Width),
			zap.Int("height", md.Height),
		)
		metadata[entry.Name] = md
	}

	log.Info("multi resize finished",
		zap.Int("requested", len(catalog)),
		zap.Int("produced", len(metadata)),
	)
	return metadata
}

// resizeOne runs a single catalog entry on a duplicate of orig. The duplicate
// is released and the editor state reset on every return path.
func (p *Pipeline) resizeOne(
	ctx context.Context,
	log *zap.Logger,
	editor Editor,
	entry sizes.Entry,
	orig *imaging.Handle,
	origSize imaging.Size,
	origQuality int,
) (Metadata, error) {
	work, err := orig.Duplicate()
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to acquire image: %w", err)
	}

	editor.SetHandle(work)
	defer func() {
		work.Release()
		editor.SetHandle(orig)
		editor.SetSize(origSize)
		_ = editor.SetQuality(origQuality)
	}()

	info := p.registry.Info(entry.Name)

	if _, err := editor.Resize(entry.Width, entry.Height, entry.Crop, info.Override()); err != nil {
		return Metadata{}, fmt.Errorf("failed to resize: %w", err)
	}

	if info.Quality != nil {
		if err := editor.SetQuality(*info.Quality); err != nil {
			log.Warn("ignoring registered quality", zap.Error(err))
		}
	}

	for _, name := range info.Filters {
		if !editor.ApplyFilter(name) {
			log.Debug("ignoring unknown filter", zap.String("filter", name))
		}
	}

	saved, err := editor.Save(ctx)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to save: %w", err)
	}
	if saved == nil {
		return Metadata{}, errNothingSaved
	}

	return metadataFrom(saved), nil
}
