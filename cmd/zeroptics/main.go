package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/zero-one-labs/zeroptics/constants"
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
		dir        = flag.String("dir", "", "scan every supported file under this directory")
		lang       = flag.String("lang", "", "tesseract language (overrides ZEROPTICS_LANG)")
		engineName = flag.String("engine", "", "gosseract | tesseract-exec (overrides ZEROPTICS_ENGINE)")
		noCorrect  = flag.Bool("no-correct", false, "skip dictionary autocorrection")
		locale     = flag.String("locale", "", "dictionary locale (overrides ZEROPTICS_DICT_LOCALE)")
		normalize  = flag.Bool("normalize", false, "collapse noisy whitespace in the result")
		exportPDF  = flag.String("export", "", "write the aggregated text to this PDF path")
		historyOut = flag.String("history-xlsx", "", "write the session history to this XLSX path")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *lang != "" {
		cfg.OCR.Language = *lang
	}
	if *engineName != "" {
		cfg.OCR.Engine = *engineName
	}
	if *noCorrect {
		cfg.Spell.Disabled = true
	}
	if *locale != "" {
		cfg.Spell.Locale = *locale
	}
	if *normalize {
		cfg.OCR.Normalize = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	paths := flag.Args()
	if *dir == "" && len(paths) == 0 {
		logger.Error("usage", "cmd", "zeroptics [flags] <file>... | -dir <directory>")
		os.Exit(2)
	}

	ctx := context.Background()

	b, err := buildBatch(paths, *dir)
	if err != nil {
		logger.Error("build batch", "error", err)
		os.Exit(2)
	}
	if len(b.Items) == 0 {
		logger.Error("nothing to scan")
		os.Exit(2)
	}

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		logger.Error("build engine", "error", err)
		os.Exit(2)
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
	orch.OnState(func(s pipeline.State) {
		if s.Status == constants.RunRunning {
			fmt.Fprintf(os.Stderr, "\rrecognizing... %3d%%", s.Progress)
		}
	})

	src := batch.NewSource(b, raster.New(), cfg.OCR.RasterScale, logger)
	state, err := orch.Submit(ctx, src)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	text := state.Text
	if cfg.OCR.Normalize {
		text = recognize.Normalize(text)
	}
	fmt.Println(text)

	if *exportPDF != "" {
		if err := export.PDF(text, *exportPDF); err != nil {
			logger.Error("export pdf", "path", *exportPDF, "error", err)
			os.Exit(1)
		}
		logger.Info("export.pdf.ok", "path", *exportPDF)
	}
	if *historyOut != "" {
		data, err := export.HistoryXLSX(ledger.Entries(), logger)
		if err != nil {
			logger.Error("export history", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*historyOut, data, 0o644); err != nil {
			logger.Error("write history xlsx", "path", *historyOut, "error", err)
			os.Exit(1)
		}
	}
}

func buildBatch(paths []string, dir string) (batch.Batch, error) {
	if dir != "" {
		dirBatch, err := ingest.BatchFromDirectory(dir, true)
		if err != nil {
			return batch.Batch{}, err
		}
		if len(paths) == 0 {
			return dirBatch, nil
		}
		fileBatch, err := batch.FromPaths(paths)
		if err != nil {
			return batch.Batch{}, err
		}
		fileBatch.Items = append(fileBatch.Items, dirBatch.Items...)
		return fileBatch, nil
	}
	return batch.FromPaths(paths)
}

func buildEngine(cfg *common.Config, logger *slog.Logger) (recognize.Engine, error) {
	switch cfg.OCR.Engine {
	case "gosseract":
		return recognize.NewTesseract(cfg.OCR.Language, cfg.OCR.TessdataDir, logger), nil
	case "tesseract-exec":
		return recognize.NewExecTesseract(cfg.OCR.Tesseract, cfg.OCR.Language, cfg.OCR.TessdataDir, logger), nil
	}
	return nil, fmt.Errorf("unknown engine: %q", cfg.OCR.Engine)
}
