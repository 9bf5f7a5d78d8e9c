// Package export turns scan results into downloadable artifacts: the OCR
// text as a PDF, and the session history as an XLSX workbook.
package export

import (
	"github.com/go-pdf/fpdf"

	"github.com/zero-one-labs/zeroptics/internal/common"
)

// DefaultPDFName mirrors the app's download name.
const DefaultPDFName = "ocr-result.pdf"

// textWidth is the wrapped-line budget in mm on an A4 page (210mm wide,
// ~15mm margins each side).
const textWidth = 180

// PDF writes the aggregated text to path as a wrapped A4 document.
func PDF(text, path string) error {
	if path == "" {
		path = DefaultPDFName
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)

	doc.MultiCell(textWidth, 6, text, "", "L", false)

	if err := doc.OutputFileAndClose(path); err != nil {
		return common.NewAppError("EXPORT_PDF", "write pdf", err)
	}
	return nil
}
