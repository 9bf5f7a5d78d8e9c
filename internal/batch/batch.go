// Package batch models one user-submitted scan batch and normalizes its
// items (plain images, multi-page PDFs, camera frames) into a uniform
// ordered sequence of page units for recognition.
package batch

import (
	"fmt"
	"path/filepath"

	"github.com/zero-one-labs/zeroptics/constants"
	"github.com/zero-one-labs/zeroptics/internal/common"
)

// Item is one submitted input.
type Item struct {
	Path string
	Kind constants.Kind
	Data []byte // raw bytes; loaded from Path lazily when nil
}

// Batch is one user-initiated group of inputs processed together.
// It is consumed entirely by one pipeline run and not persisted.
type Batch struct {
	Items []Item
}

// PageUnit is the atomic unit submitted to the recognition engine:
// one raster image plus its position within the batch.
type PageUnit struct {
	ItemIndex int
	Page      int // 1-based page within a PDF; 1 for plain images and frames
	Pages     int // page count of the owning item
	Image     []byte
	Thumbnail []byte // set for camera frames only
}

// FromPaths builds a batch from file paths, tagging each item by extension.
func FromPaths(paths []string) (Batch, error) {
	var b Batch
	for _, p := range paths {
		kind := constants.MapExtToKind(filepath.Ext(p))
		if kind == "" {
			return Batch{}, fmt.Errorf("%w: unsupported file type %q", common.ErrInvalidInput, p)
		}
		b.Items = append(b.Items, Item{Path: p, Kind: kind})
	}
	return b, nil
}

// FromFrame builds a single-item batch from a captured camera frame.
func FromFrame(frame []byte) Batch {
	return Batch{Items: []Item{{Kind: constants.Image, Data: frame}}}
}
