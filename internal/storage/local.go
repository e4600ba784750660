package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalSaver writes variants into a directory on the local filesystem.
type LocalSaver struct {
	dir string
}

var _ Saver = (*LocalSaver)(nil)

// NewLocalSaver creates the output directory if needed.
func NewLocalSaver(dir string) (*LocalSaver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &LocalSaver{dir: dir}, nil
}

// Dir returns the output directory.
func (s *LocalSaver) Dir() string {
	return s.dir
}

// Save encodes the request and writes it to <dir>/<base>-<w>x<h>.<ext>.
func (s *LocalSaver) Save(ctx context.Context, req SaveRequest) (*Saved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := Encode(req)
	if err != nil {
		return nil, err
	}

	name := FileName(req)
	path := filepath.Join(s.dir, name)
	size := int64(buf.Len())

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	b := req.Image.Bounds()
	return &Saved{
		Path:     path,
		File:     name,
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: MimeType(req.Format),
		Filesize: size,
	}, nil
}
