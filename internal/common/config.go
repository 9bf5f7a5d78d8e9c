package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR     OCRConfig
	Spell   SpellConfig
	Camera  CameraConfig
	History HistoryConfig
	Export  ExportConfig
}

// OCRConfig holds recognition-related configuration
type OCRConfig struct {
	Engine      string // "gosseract" | "tesseract-exec"
	Tesseract   string // binary name or absolute path for the exec engine
	Language    string
	TessdataDir string
	RasterScale float64 // PDF rasterization scale against the 72 DPI baseline
	Normalize   bool    // post-OCR whitespace/artifact cleanup
}

// SpellConfig holds autocorrection dictionary configuration
type SpellConfig struct {
	Locale      string // e.g. "en_US"
	ResourceDir string // directory holding <locale>.aff / <locale>.dic
	BaseURL     string // alternative HTTP base for the two resources
	Timeout     time.Duration
	Disabled    bool
}

// CameraConfig holds frame-capture configuration
type CameraConfig struct {
	FFmpeg            string
	UserDevice        string // device path for the "user" facing mode
	EnvironmentDevice string // device path for the "environment" facing mode
}

// HistoryConfig holds scan-history configuration
type HistoryConfig struct {
	Capacity int
}

// ExportConfig holds export defaults
type ExportConfig struct {
	PDFName string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Engine:      getEnv("ZEROPTICS_ENGINE", "gosseract"),
			Tesseract:   getEnv("ZEROPTICS_TESSERACT", "tesseract"),
			Language:    getEnv("ZEROPTICS_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			RasterScale: getEnvAsFloat64("ZEROPTICS_RASTER_SCALE", 2.0),
			Normalize:   getEnvAsBool("ZEROPTICS_NORMALIZE", false),
		},
		Spell: SpellConfig{
			Locale:      getEnv("ZEROPTICS_DICT_LOCALE", "en_US"),
			ResourceDir: getEnv("ZEROPTICS_DICT_DIR", ""),
			BaseURL:     getEnv("ZEROPTICS_DICT_URL", ""),
			Timeout:     getEnvAsDuration("ZEROPTICS_DICT_TIMEOUT", 15*time.Second),
			Disabled:    getEnvAsBool("ZEROPTICS_NO_CORRECT", false),
		},
		Camera: CameraConfig{
			FFmpeg:            getEnv("ZEROPTICS_FFMPEG", "ffmpeg"),
			UserDevice:        getEnv("ZEROPTICS_CAMERA_USER", "/dev/video1"),
			EnvironmentDevice: getEnv("ZEROPTICS_CAMERA_ENV", "/dev/video0"),
		},
		History: HistoryConfig{
			Capacity: getEnvAsInt("ZEROPTICS_HISTORY_CAP", 20),
		},
		Export: ExportConfig{
			PDFName: getEnv("ZEROPTICS_PDF_NAME", "ocr-result.pdf"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("ZEROPTICS_ENGINE", c.OCR.Engine, RequiredRule, OneOf("gosseract", "tesseract-exec"))
	v.Field("ZEROPTICS_LANG", c.OCR.Language, RequiredRule)
	if c.OCR.RasterScale <= 0 {
		v.Add("ZEROPTICS_RASTER_SCALE", c.OCR.RasterScale, "must be positive")
	}
	if c.History.Capacity <= 0 {
		v.Add("ZEROPTICS_HISTORY_CAP", c.History.Capacity, "must be positive")
	}
	if !c.Spell.Disabled {
		v.Field("ZEROPTICS_DICT_LOCALE", c.Spell.Locale, RequiredRule)
	}
	return v.Error()
}
