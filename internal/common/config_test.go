package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.OCR.Engine != "gosseract" {
		t.Errorf("Engine = %q", cfg.OCR.Engine)
	}
	if cfg.OCR.Language != "eng" {
		t.Errorf("Language = %q", cfg.OCR.Language)
	}
	if cfg.OCR.RasterScale != 2.0 {
		t.Errorf("RasterScale = %v", cfg.OCR.RasterScale)
	}
	if cfg.Spell.Locale != "en_US" {
		t.Errorf("Locale = %q", cfg.Spell.Locale)
	}
	if cfg.History.Capacity != 20 {
		t.Errorf("Capacity = %d", cfg.History.Capacity)
	}
	if cfg.Export.PDFName != "ocr-result.pdf" {
		t.Errorf("PDFName = %q", cfg.Export.PDFName)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ZEROPTICS_ENGINE", "tesseract-exec")
	t.Setenv("ZEROPTICS_LANG", "deu")
	t.Setenv("ZEROPTICS_RASTER_SCALE", "3.5")
	t.Setenv("ZEROPTICS_HISTORY_CAP", "5")
	t.Setenv("ZEROPTICS_NO_CORRECT", "true")
	t.Setenv("ZEROPTICS_DICT_TIMEOUT", "30s")

	cfg := LoadConfig()
	if cfg.OCR.Engine != "tesseract-exec" {
		t.Errorf("Engine = %q", cfg.OCR.Engine)
	}
	if cfg.OCR.Language != "deu" {
		t.Errorf("Language = %q", cfg.OCR.Language)
	}
	if cfg.OCR.RasterScale != 3.5 {
		t.Errorf("RasterScale = %v", cfg.OCR.RasterScale)
	}
	if cfg.History.Capacity != 5 {
		t.Errorf("Capacity = %d", cfg.History.Capacity)
	}
	if !cfg.Spell.Disabled {
		t.Error("Spell.Disabled should be true")
	}
	if cfg.Spell.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Spell.Timeout)
	}
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ZEROPTICS_HISTORY_CAP", "lots")
	t.Setenv("ZEROPTICS_RASTER_SCALE", "big")

	cfg := LoadConfig()
	if cfg.History.Capacity != 20 {
		t.Errorf("Capacity = %d, want default", cfg.History.Capacity)
	}
	if cfg.OCR.RasterScale != 2.0 {
		t.Errorf("RasterScale = %v, want default", cfg.OCR.RasterScale)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := LoadConfig()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"unknown engine", func(c *Config) { c.OCR.Engine = "easyocr" }, true},
		{"blank language", func(c *Config) { c.OCR.Language = " " }, true},
		{"zero scale", func(c *Config) { c.OCR.RasterScale = 0 }, true},
		{"negative capacity", func(c *Config) { c.History.Capacity = -1 }, true},
		{"blank locale", func(c *Config) { c.Spell.Locale = "" }, true},
		{"blank locale ok when disabled", func(c *Config) { c.Spell.Locale = ""; c.Spell.Disabled = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
