// Package config loads pdfrev settings from the environment.
//
// Every setting has a PDFREV_ variable. An optional .env file is read
// first; variables already set in the process win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvFormat      = "PDFREV_FORMAT"
	EnvLogLevel    = "PDFREV_LOG_LEVEL"
	EnvLogFormat   = "PDFREV_LOG_FORMAT"
	EnvOCR         = "PDFREV_OCR"
	EnvOCRLang     = "PDFREV_OCR_LANG"
	EnvDatabaseURL = "PDFREV_DATABASE_URL"
	EnvMaxFileSize = "PDFREV_MAX_FILE_SIZE"
)

// DefaultMaxFileSize is 512 MiB
const DefaultMaxFileSize int64 = 512 << 20

// Report formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Config holds the resolved settings
type Config struct {
	// Report output format: text, json or html
	Format string

	// Logging
	LogLevel  slog.Level
	LogFormat string // text or json

	// OCR of image-only pages
	OCR     bool
	OCRLang string

	// PostgreSQL connection string; empty disables persistence
	DatabaseURL string

	// Files larger than this are rejected before reading
	MaxFileSize int64
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		Format:      FormatText,
		LogLevel:    slog.LevelInfo,
		LogFormat:   "text",
		OCRLang:     "eng",
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Load reads the given .env files (".env" when none are named), then the
// environment, and validates the result. Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from the process environment without
// validating it
func FromEnv() (*Config, error) {
	cfg := Default()
	cfg.Format = strings.ToLower(getEnvOrDefault(EnvFormat, cfg.Format))
	cfg.LogFormat = strings.ToLower(getEnvOrDefault(EnvLogFormat, cfg.LogFormat))
	cfg.OCRLang = getEnvOrDefault(EnvOCRLang, cfg.OCRLang)
	cfg.DatabaseURL = os.Getenv(EnvDatabaseURL)

	if v := os.Getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	var err error
	if cfg.OCR, err = getEnvAsBool(EnvOCR, cfg.OCR); err != nil {
		return nil, err
	}
	if cfg.MaxFileSize, err = getEnvAsInt64(EnvMaxFileSize, cfg.MaxFileSize); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatHTML:
	default:
		return fmt.Errorf("%s must be text, json or html, got %q", EnvFormat, c.Format)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s must be text or json, got %q", EnvLogFormat, c.LogFormat)
	}

	if c.OCR && c.OCRLang == "" {
		return fmt.Errorf("%s is required when OCR is enabled", EnvOCRLang)
	}

	if c.MaxFileSize < 1024 || c.MaxFileSize > 10<<30 { // 1KB to 10GB
		return fmt.Errorf("%s must be between 1KB and 10GB, got %d", EnvMaxFileSize, c.MaxFileSize)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, valueStr)
	}
	return value, nil
}

func getEnvAsInt64(key string, defaultValue int64) (int64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, valueStr)
	}
	return value, nil
}
