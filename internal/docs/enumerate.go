// Package docs provides the source file enumeration collaborator used by the
// pipeline's discovery phase.
package docs

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Enumerator lists candidate source files below a root. Returned paths are
// slash-separated and relative to the root.
type Enumerator interface {
	Enumerate(ctx context.Context, root string) ([]string, error)
}

// FSEnumerator walks a local directory tree and keeps files matching the
// configured extension.
type FSEnumerator struct {
	Extension string // including the dot, e.g. ".md"
}

func (e *FSEnumerator) Enumerate(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			// Hidden directories are skipped entirely.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), e.Extension) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("source files enumerated", logfields.Path(root), logfields.Count(len(files)))
	return files, nil
}
