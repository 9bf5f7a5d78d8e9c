package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zero-one-labs/zeroptics/internal/common"
	"github.com/zero-one-labs/zeroptics/internal/execx"
)

// ExecTesseract recognizes text by shelling out to the tesseract binary.
// Useful where cgo is unavailable; same event envelope as Tesseract.
type ExecTesseract struct {
	Binary      string // binary name or absolute path; if empty -> "tesseract"
	Language    string
	TessdataDir string

	runner execx.Runner
	logger *slog.Logger
}

func NewExecTesseract(binary, language, tessdataDir string, logger *slog.Logger) *ExecTesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &ExecTesseract{
		Binary:      binary,
		Language:    language,
		TessdataDir: tessdataDir,
		runner:      execx.ExecRunner{},
		logger:      logger,
	}
}

func (t *ExecTesseract) Recognize(ctx context.Context, image []byte, progress func(Event)) (string, error) {
	start := time.Now()

	tmpDir, err := os.MkdirTemp("", "zeroptics-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			t.logger.Warn("recognize.tmp.remove", "dir", tmpDir, "error", rerr)
		}
	}()

	in := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(in, image, 0o600); err != nil {
		return "", err
	}

	args := []string{in, "stdout", "-l", t.Language}
	if t.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.TessdataDir)
	}

	emit(progress, Event{Status: StatusRecognizing, Progress: 0})
	// tesseract <file> stdout -l <lang>
	out, errb, err := t.runner.Run(ctx, t.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %v (%s)", common.ErrRecognition, err, truncateErr(errb))
	}
	emit(progress, Event{Status: StatusRecognizing, Progress: 1})

	t.logger.Debug("recognize.ok",
		"engine", "tesseract-exec",
		"run_id", common.RunIDFromContext(ctx),
		"lang", t.Language,
		"bytes", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return string(out), nil
}

func truncateErr(b []byte) string {
	const max = 512
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "...(truncated)"
}
