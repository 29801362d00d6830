package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/cropper/internal/export"
	"github.com/lehigh-university-libraries/cropper/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportConfig represents the settings section of the export YAML
type ExportConfig struct {
	Format     string  `yaml:"format"`
	Template   string  `yaml:"template"`
	CustomBase string  `yaml:"custombase,omitempty"`
	Aspect     string  `yaml:"aspect"`
	Preset     string  `yaml:"preset,omitempty"`
	Zoom       float64 `yaml:"zoom"`
	Timestamp  string  `yaml:"timestamp"`
}

// EntryResult represents one image written to the archive
type EntryResult struct {
	Index   int    `yaml:"index"`
	Source  string `yaml:"source"`
	Entry   string `yaml:"entry"`
	Cropped bool   `yaml:"cropped"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

// FailureResult represents an image left out of the archive
type FailureResult struct {
	Index  int    `yaml:"index"`
	Source string `yaml:"source"`
	Error  string `yaml:"error"`
}

// ExportReport is the complete record of one batch export
type ExportReport struct {
	Config   ExportConfig    `yaml:"config"`
	Archive  string          `yaml:"archive"`
	Entries  []EntryResult   `yaml:"entries"`
	Failures []FailureResult `yaml:"failures,omitempty"`
}

// Build pairs the session snapshot taken at export time with the archive contents.
func Build(status models.SessionStatus, archive *export.Archive, archivePath string) ExportReport {
	report := ExportReport{
		Config: ExportConfig{
			Format:     status.Format,
			Template:   status.Template,
			CustomBase: status.CustomBase,
			Aspect:     status.Aspect,
			Preset:     status.Preset,
			Zoom:       status.Zoom,
			Timestamp:  time.Now().Format("2006-01-02_15-04-05"),
		},
		Archive: archivePath,
	}

	failed := make(map[int]bool, len(archive.Failures))
	for _, f := range archive.Failures {
		failed[f.Index] = true
		report.Failures = append(report.Failures, FailureResult{
			Index:  f.Index,
			Source: f.Name,
			Error:  f.Err.Error(),
		})
	}

	next := 0
	for _, img := range status.Images {
		if failed[img.Index] || next >= len(archive.Entries) {
			continue
		}
		entry := EntryResult{
			Index:   img.Index,
			Source:  img.Name,
			Entry:   archive.Entries[next],
			Cropped: img.Cropped,
			Width:   img.Width,
			Height:  img.Height,
		}
		if img.Cropped {
			entry.Width, entry.Height = img.CropWidth, img.CropHeight
		}
		report.Entries = append(report.Entries, entry)
		next++
	}

	return report
}

// SaveToYAML writes the report to path, creating parent directories as needed
func SaveToYAML(path string, report ExportReport) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	return nil
}
