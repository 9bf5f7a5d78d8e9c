package batch

import (
	"context"
	"log/slog"
	"os"

	"github.com/zero-one-labs/zeroptics/constants"
	"github.com/zero-one-labs/zeroptics/internal/common"
)

// Document is an open PDF exposing its page sequence.
type Document interface {
	PageCount() int
	RenderPage(page int, scale float64) ([]byte, error)
	Close() error
}

// Rasterizer opens a PDF byte buffer for page rendering.
type Rasterizer interface {
	Open(data []byte) (Document, error)
}

// UnitSource yields page units lazily, in submission order.
type UnitSource interface {
	Next(ctx context.Context) (PageUnit, bool, error)
}

// Source walks a batch item by item, delegating PDFs to the rasterizer.
// An item whose bytes cannot be read or whose PDF cannot be rasterized
// contributes zero units; the failure is logged and iteration continues
// with the remaining items.
type Source struct {
	batch  Batch
	ras    Rasterizer
	scale  float64
	logger *slog.Logger

	item int
	doc  Document
	page int // next 1-based page of the open document
}

func NewSource(b Batch, ras Rasterizer, scale float64, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	if scale <= 0 {
		scale = 2.0
	}
	return &Source{batch: b, ras: ras, scale: scale, logger: logger}
}

// Next returns the next page unit. The second return is false once the
// batch is exhausted. The error return is reserved for context cancellation.
func (s *Source) Next(ctx context.Context) (PageUnit, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			s.closeDoc()
			return PageUnit{}, false, err
		}

		// Drain the open document first.
		if s.doc != nil {
			if s.page <= s.doc.PageCount() {
				unit, ok := s.renderNextPage()
				if !ok {
					continue
				}
				return unit, true, nil
			}
			s.closeDoc()
			s.item++
		}

		if s.item >= len(s.batch.Items) {
			return PageUnit{}, false, nil
		}

		it := s.batch.Items[s.item]
		data := it.Data
		if data == nil {
			var err error
			data, err = os.ReadFile(it.Path)
			if err != nil {
				s.skipItem(it, common.WrapError(err, "read item"))
				continue
			}
		}

		if it.Kind == constants.PDF {
			doc, err := s.ras.Open(data)
			if err != nil {
				s.skipItem(it, common.WrapError(err, common.ErrRasterization.Error()))
				continue
			}
			s.doc = doc
			s.page = 1
			continue
		}

		idx := s.item
		s.item++
		return PageUnit{ItemIndex: idx, Page: 1, Pages: 1, Image: data, Thumbnail: it.Thumbnailable()}, true, nil
	}
}

func (s *Source) renderNextPage() (PageUnit, bool) {
	it := s.batch.Items[s.item]
	page := s.page
	img, err := s.doc.RenderPage(page, s.scale)
	if err != nil {
		// A page that fails to render voids the rest of the item.
		s.skipItem(it, common.WrapError(err, common.ErrRasterization.Error()))
		s.closeDoc()
		s.item++
		return PageUnit{}, false
	}
	unit := PageUnit{ItemIndex: s.item, Page: page, Pages: s.doc.PageCount(), Image: img}
	s.page++
	return unit, true
}

func (s *Source) skipItem(it Item, err error) {
	s.logger.Warn("batch.item.skip", "path", it.Path, "kind", string(it.Kind), "error", err)
	if s.doc == nil {
		s.item++
	}
}

func (s *Source) closeDoc() {
	if s.doc != nil {
		if err := s.doc.Close(); err != nil {
			s.logger.Warn("batch.doc.close", "error", err)
		}
		s.doc = nil
		s.page = 0
	}
}

// Thumbnailable returns the bytes to retain as a history thumbnail.
// Only camera frames (in-memory items without a path) carry one.
func (it Item) Thumbnailable() []byte {
	if it.Path == "" && it.Kind == constants.Image {
		return it.Data
	}
	return nil
}
