package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/cropper/internal/export"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "PNG" || cfg.Template != "original" || cfg.Port != "8888" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cropper.yaml")
	content := `format: JPEG
template: custom
custom_base: banner
jpeg_quality: 90
concurrency: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CROPPER_CONCURRENCY", "4")
	t.Setenv("CROPPER_PORT", "3000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "JPEG" || cfg.Template != "custom" || cfg.CustomBase != "banner" {
		t.Errorf("Expected file values, got %+v", cfg)
	}
	if cfg.JPEGQuality != 90 {
		t.Errorf("Expected quality 90, got %d", cfg.JPEGQuality)
	}
	if cfg.Concurrency != 4 || cfg.Port != "3000" {
		t.Errorf("Expected env overrides, got concurrency=%d port=%s", cfg.Concurrency, cfg.Port)
	}

	opts := cfg.SessionOptions()
	if opts.Format != export.JPEG || opts.Template != export.TemplateCustom || opts.CustomBase != "banner" {
		t.Errorf("Unexpected session options %+v", opts)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("format: BMP\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, export.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}

	t.Setenv("CROPPER_CONCURRENCY", "lots")
	if _, err := Load(""); err == nil {
		t.Error("Expected error for non-numeric CROPPER_CONCURRENCY")
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.JPEGQuality = 400
	cfg.MaxUploadBytes = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.JPEGQuality != export.DefaultJPEGQuality || cfg.MaxUploadBytes <= 0 {
		t.Errorf("Expected defaults restored, got %+v", cfg)
	}
}
