package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv blanks every PDFREV_ variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvFormat, EnvLogLevel, EnvLogFormat, EnvOCR, EnvOCRLang, EnvDatabaseURL, EnvMaxFileSize} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("FromEnv() = %+v, want defaults %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFormat, "JSON")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvOCR, "true")
	t.Setenv(EnvOCRLang, "eng+por")
	t.Setenv(EnvDatabaseURL, "postgres://localhost/pdfrev")
	t.Setenv(EnvMaxFileSize, "2048")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	want := Config{
		Format:      FormatJSON,
		LogLevel:    slog.LevelDebug,
		LogFormat:   "text",
		OCR:         true,
		OCRLang:     "eng+por",
		DatabaseURL: "postgres://localhost/pdfrev",
		MaxFileSize: 2048,
	}
	if *cfg != want {
		t.Errorf("FromEnv() = %+v, want %+v", *cfg, want)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvLogLevel, "loud"},
		{EnvOCR, "maybe"},
		{EnvMaxFileSize, "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("FromEnv() error = %v, want one naming %s", err, tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"html", func(c *Config) { c.Format = FormatHTML }, false},
		{"bad format", func(c *Config) { c.Format = "pdf" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"ocr without language", func(c *Config) { c.OCR = true; c.OCRLang = "" }, true},
		{"tiny limit", func(c *Config) { c.MaxFileSize = 10 }, true},
		{"huge limit", func(c *Config) { c.MaxFileSize = 11 << 30 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are set, even empty ones
	os.Unsetenv(EnvFormat)
	os.Unsetenv(EnvOCRLang)

	path := filepath.Join(t.TempDir(), "test.env")
	content := EnvFormat + "=html\n" + EnvOCRLang + "=deu\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv(EnvFormat)
		os.Unsetenv(EnvOCRLang)
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != FormatHTML || cfg.OCRLang != "deu" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFormat, "yaml")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("expected validation error")
	}
}
