package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zero-one-labs/zeroptics/internal/batch"
	"github.com/zero-one-labs/zeroptics/internal/common"
	"github.com/zero-one-labs/zeroptics/internal/export"
	"github.com/zero-one-labs/zeroptics/internal/history"
	"github.com/zero-one-labs/zeroptics/internal/ingest"
	"github.com/zero-one-labs/zeroptics/internal/pipeline"
	"github.com/zero-one-labs/zeroptics/internal/raster"
	"github.com/zero-one-labs/zeroptics/internal/recognize"
	"github.com/zero-one-labs/zeroptics/internal/spell"
)

func main() {
	var (
		dir        = flag.String("dir", "", "directory to watch (required)")
		initial    = flag.Bool("initial-scan", false, "also OCR files already present")
		debounce   = flag.Duration("debounce", 500*time.Millisecond, "coalesce rapid file events")
		historyOut = flag.String("history-xlsx", "", "write the session history here on shutdown")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *dir == "" {
		logger.Error("usage", "cmd", "scanwatch -dir <directory>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var engine recognize.Engine
	if cfg.OCR.Engine == "tesseract-exec" {
		engine = recognize.NewExecTesseract(cfg.OCR.Tesseract, cfg.OCR.Language, cfg.OCR.TessdataDir, logger)
	} else {
		engine = recognize.NewTesseract(cfg.OCR.Language, cfg.OCR.TessdataDir, logger)
	}

	holder := &spell.Holder{}
	if !cfg.Spell.Disabled {
		spell.LoadAsync(ctx, spell.LoaderConfig{
			Locale:      cfg.Spell.Locale,
			ResourceDir: cfg.Spell.ResourceDir,
			BaseURL:     cfg.Spell.BaseURL,
			Timeout:     cfg.Spell.Timeout,
		}, holder, logger)
	}

	ledger := history.NewLedger(cfg.History.Capacity)
	orch := pipeline.New(engine, spell.NewCorrector(holder), ledger, logger)

	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Root:        *dir,
		InitialScan: *initial,
		Debounce:    *debounce,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("start watcher", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("watching", "dir", *dir)

	ras := raster.New()
	for {
		select {
		case <-ctx.Done():
			flushHistory(ledger, *historyOut, logger)
			return
		case werr, ok := <-errCh:
			if ok && werr != nil {
				logger.Warn("watcher error", "error", werr)
			}
		case path, ok := <-evCh:
			if !ok {
				flushHistory(ledger, *historyOut, logger)
				return
			}
			b, berr := batch.FromPaths([]string{path})
			if berr != nil {
				logger.Warn("skip file", "path", path, "error", berr)
				continue
			}
			state, serr := orch.Submit(ctx, batch.NewSource(b, ras, cfg.OCR.RasterScale, logger))
			if serr != nil {
				logger.Error("scan failed", "path", path, "error", serr)
				continue
			}
			fmt.Printf("--- %s ---\n%s\n", path, state.Text)
		}
	}
}

func flushHistory(ledger *history.Ledger, path string, logger *slog.Logger) {
	if path == "" || ledger.Len() == 0 {
		return
	}
	data, err := export.HistoryXLSX(ledger.Entries(), logger)
	if err != nil {
		logger.Error("export history", "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("write history xlsx", "path", path, "error", err)
	}
}
