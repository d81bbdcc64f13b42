// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package export delivers rendered images outside the process: to a file
// (the download action) or to the system clipboard (the copy action).
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/wifiqr/internal/fsutil"
	xglog "github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/render"
)

const (
	dirPerm  os.FileMode = 0o750
	filePerm os.FileMode = 0o600
)

// ErrInvalidName is returned for names that are not a single path element.
var ErrInvalidName = errors.New("export name must be a single file name")

// Exporter writes an image under a suggested name and returns where it went.
type Exporter interface {
	Export(ctx context.Context, img *render.Image, name string) (string, error)
}

// FileExporter writes images into Dir. Existing files with the same name are
// replaced atomically, so a reader never sees a partial PNG.
type FileExporter struct {
	Dir string
}

// NewFileExporter returns an exporter rooted at dir ("." when empty).
func NewFileExporter(dir string) *FileExporter {
	if dir == "" {
		dir = "."
	}
	return &FileExporter{Dir: dir}
}

// Export writes img to Dir/name.
func (e *FileExporter) Export(ctx context.Context, img *render.Image, name string) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("export: empty image")
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("export %q: %w", name, ErrInvalidName)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.Dir, dirPerm); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if _, err := fsutil.ConfineName(e.Dir, name); err != nil {
		return "", fmt.Errorf("export %q: %w", name, err)
	}
	path := filepath.Join(e.Dir, name)

	logger := xglog.FromContext(ctx)
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(filePerm))
	if err != nil {
		return "", fmt.Errorf("create pending image file: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending image file")
		}
	}()

	if _, err := pending.Write(img.Data); err != nil {
		return "", fmt.Errorf("write image data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("atomically replace image file: %w", err)
	}

	logger.Info().
		Str("event", "export.file_written").
		Str("path", path).
		Int("bytes", len(img.Data)).
		Msg("image exported")
	return path, nil
}
