// Package ingest discovers scannable files: one-shot directory walks and a
// filesystem watcher for drop-folder operation.
package ingest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/zero-one-labs/zeroptics/constants"
	"github.com/zero-one-labs/zeroptics/internal/batch"
)

// AllowedExt checks if a file extension is in the allowed set (pdf/jpg/jpeg/png).
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// ScanDirectory walks root and returns the allowed files in walk order,
// skipping hidden entries when requested.
func ScanDirectory(root string, skipHidden bool) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if AllowedExt(filepath.Ext(path)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// BatchFromDirectory builds one batch from every allowed file under root.
func BatchFromDirectory(root string, skipHidden bool) (batch.Batch, error) {
	paths, err := ScanDirectory(root, skipHidden)
	if err != nil {
		return batch.Batch{}, err
	}
	return batch.FromPaths(paths)
}
