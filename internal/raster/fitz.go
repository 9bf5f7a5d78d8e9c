// Package raster renders PDF pages to raster images via MuPDF (go-fitz).
package raster

import (
	"bytes"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/zero-one-labs/zeroptics/internal/batch"
)

// DefaultScale balances recognition accuracy against processing time.
const DefaultScale = 2.0

const baseDPI = 72

// Fitz opens PDF buffers with MuPDF.
type Fitz struct{}

func New() *Fitz { return &Fitz{} }

func (Fitz) Open(data []byte) (batch.Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &document{doc: doc}, nil
}

type document struct {
	doc *fitz.Document
}

func (d *document) PageCount() int {
	return d.doc.NumPage()
}

// RenderPage rasterizes the given 1-based page as PNG at scale times the
// PDF's 72 DPI baseline.
func (d *document) RenderPage(page int, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	img, err := d.doc.ImageDPI(page-1, baseDPI*scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *document) Close() error {
	return d.doc.Close()
}
