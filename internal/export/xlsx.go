package export

import (
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/zero-one-labs/zeroptics/internal/common"
	"github.com/zero-one-labs/zeroptics/internal/history"
)

// HistoryXLSX returns an XLSX workbook (as bytes) listing the session's
// scan history, newest first.
func HistoryXLSX(entries []history.Entry, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "History"
	// Rename the default sheet so the workbook carries no empty Sheet1.
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Scanned At", "Text"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range entries {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, e.Date)
		write(2, truncate(e.Text, 32000)) // xlsx cell limit is 32767 chars
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "B", "B", 100)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.NewAppError("EXPORT_XLSX", "write workbook", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
