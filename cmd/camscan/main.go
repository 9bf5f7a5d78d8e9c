package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zero-one-labs/zeroptics/internal/capture"
	"github.com/zero-one-labs/zeroptics/internal/common"
	"github.com/zero-one-labs/zeroptics/internal/export"
	"github.com/zero-one-labs/zeroptics/internal/history"
	"github.com/zero-one-labs/zeroptics/internal/pipeline"
	"github.com/zero-one-labs/zeroptics/internal/recognize"
	"github.com/zero-one-labs/zeroptics/internal/spell"
)

func main() {
	var (
		facing    = flag.String("facing", string(capture.FacingEnvironment), "camera facing mode: user | environment")
		exportPDF = flag.String("export", "", "write the recognized text to this PDF path")
		noCorrect = flag.Bool("no-correct", false, "skip dictionary autocorrection")
		timeout   = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	mode := capture.FacingMode(*facing)
	if mode != capture.FacingUser && mode != capture.FacingEnvironment {
		logger.Error("invalid facing mode", "facing", *facing)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if *noCorrect {
		cfg.Spell.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	holder := &spell.Holder{}
	if !cfg.Spell.Disabled {
		spell.LoadAsync(ctx, spell.LoaderConfig{
			Locale:      cfg.Spell.Locale,
			ResourceDir: cfg.Spell.ResourceDir,
			BaseURL:     cfg.Spell.BaseURL,
			Timeout:     cfg.Spell.Timeout,
		}, holder, logger)
	}

	var engine recognize.Engine
	if cfg.OCR.Engine == "tesseract-exec" {
		engine = recognize.NewExecTesseract(cfg.OCR.Tesseract, cfg.OCR.Language, cfg.OCR.TessdataDir, logger)
	} else {
		engine = recognize.NewTesseract(cfg.OCR.Language, cfg.OCR.TessdataDir, logger)
	}

	ledger := history.NewLedger(cfg.History.Capacity)
	orch := pipeline.New(engine, spell.NewCorrector(holder), ledger, logger)

	dev := capture.NewV4L2Device(cfg.Camera.FFmpeg, map[capture.FacingMode]string{
		capture.FacingUser:        cfg.Camera.UserDevice,
		capture.FacingEnvironment: cfg.Camera.EnvironmentDevice,
	}, logger)

	state, err := orch.CaptureAndSubmit(ctx, dev, mode)
	if err != nil {
		logger.Error("camera scan failed", "facing", *facing, "error", err)
		os.Exit(1)
	}

	fmt.Println(state.Text)

	if *exportPDF != "" {
		if err := export.PDF(state.Text, *exportPDF); err != nil {
			logger.Error("export pdf", "path", *exportPDF, "error", err)
			os.Exit(1)
		}
		logger.Info("export.pdf.ok", "path", *exportPDF)
	}
}
