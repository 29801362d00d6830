package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/lehigh-university-libraries/cropper/internal/export"
	"github.com/lehigh-university-libraries/cropper/internal/images"
	"github.com/lehigh-university-libraries/cropper/internal/session"
	"gopkg.in/yaml.v3"
)

// Config holds the defaults for new sessions and the server.
// Values come from an optional YAML file, then CROPPER_* environment variables.
type Config struct {
	Format         string `yaml:"format"`
	Template       string `yaml:"template"`
	CustomBase     string `yaml:"custom_base"`
	JPEGQuality    int    `yaml:"jpeg_quality"`
	Concurrency    int    `yaml:"concurrency"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	Port           string `yaml:"port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:         string(export.PNG),
		Template:       string(export.TemplateOriginal),
		JPEGQuality:    export.DefaultJPEGQuality,
		MaxUploadBytes: images.DefaultMaxBytes,
		Port:           "8888",
	}
}

// Load reads path (if non-empty and present) over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CROPPER_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("CROPPER_TEMPLATE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("CROPPER_CUSTOM_BASE"); v != "" {
		c.CustomBase = v
	}
	if v := os.Getenv("CROPPER_PORT"); v != "" {
		c.Port = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"CROPPER_JPEG_QUALITY", &c.JPEGQuality},
		{"CROPPER_CONCURRENCY", &c.Concurrency},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.key, err)
		}
		*e.dst = n
	}
	if v := os.Getenv("CROPPER_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CROPPER_MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

// Validate rejects unknown formats and templates and fills out-of-range numbers with defaults.
func (c *Config) Validate() error {
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := export.ParseTemplate(c.Template); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = export.DefaultJPEGQuality
	}
	if c.Concurrency < 0 {
		c.Concurrency = 0
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = images.DefaultMaxBytes
	}
	if c.Port == "" {
		c.Port = "8888"
	}
	return nil
}

// SessionOptions converts the configuration into options for a new session.
// Call it on a validated Config.
func (c *Config) SessionOptions() session.Options {
	format, _ := export.ParseFormat(c.Format)
	template, _ := export.ParseTemplate(c.Template)
	return session.Options{
		Format:      format,
		Template:    template,
		CustomBase:  c.CustomBase,
		JPEGQuality: c.JPEGQuality,
		Concurrency: c.Concurrency,
	}
}
