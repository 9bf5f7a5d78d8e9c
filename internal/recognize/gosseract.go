package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/zero-one-labs/zeroptics/internal/common"
)

// Tesseract recognizes text through the libtesseract bindings.
type Tesseract struct {
	Language    string
	TessdataDir string
	logger      *slog.Logger
}

func NewTesseract(language, tessdataDir string, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Language: language, TessdataDir: tessdataDir, logger: logger}
}

// Recognize runs tesseract over the image bytes. The C API exposes no
// incremental progress, so the recognizing phase is reported as 0 at start
// and 1 on completion.
func (t *Tesseract) Recognize(ctx context.Context, image []byte, progress func(Event)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()

	client := gosseract.NewClient()
	defer func() {
		if err := client.Close(); err != nil {
			t.logger.Warn("recognize.client.close", "error", err)
		}
	}()

	if err := client.SetLanguage(t.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if t.TessdataDir != "" {
		if err := client.SetTessdataPrefix(t.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	emit(progress, Event{Status: StatusRecognizing, Progress: 0})
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrRecognition, err)
	}
	emit(progress, Event{Status: StatusRecognizing, Progress: 1})

	t.logger.Debug("recognize.ok",
		"engine", "gosseract",
		"run_id", common.RunIDFromContext(ctx),
		"lang", t.Language,
		"bytes", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
