package cmd

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", p, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", p, err)
	}
	return p
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "alpha.png", 200, 100)
	b := writeTestPNG(t, dir, "beta.png", 100, 200)
	archivePath := filepath.Join(dir, "out", "batch.zip")
	reportPath := filepath.Join(dir, "report.yaml")

	out, err := runRoot(t, "export",
		"--preset", "instagram square",
		"--format", "jpg",
		"--template", "original_cropped",
		"--order", "beta.png,alpha.png",
		"--output", archivePath,
		"--report", reportPath,
		a, b,
	)
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote 2 of 2 images") {
		t.Errorf("Expected summary line, got %q", out)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer zr.Close()

	want := []string{"beta_cropped.jpg", "alpha_cropped.jpg"}
	if len(zr.File) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(zr.File))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("Expected entry %d to be %s, got %s", i, want[i], f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		cfg, _, err := image.DecodeConfig(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to decode %s: %v", f.Name, err)
		}
		if cfg.Width != 1080 || cfg.Height != 1080 {
			t.Errorf("Expected 1080x1080 for %s, got %dx%d", f.Name, cfg.Width, cfg.Height)
		}
	}

	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("Expected report to be written: %v", err)
	}
}

func TestExportCommandRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "alpha.png", 10, 10)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "bmp"}},
		{"unknown aspect", []string{"--aspect", "3:2"}},
		{"unknown preset", []string{"--preset", "Snapchat"}},
		{"unknown template", []string{"--template", "numbered"}},
		{"bad crop", []string{"--crop", "1,2,3"}},
		{"empty crop rect", []string{"--crop", "0,0,0,5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"export", "--output", filepath.Join(dir, "x.zip")}, tt.args...)
			if _, err := runRoot(t, append(args, a)...); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestParseCropMode(t *testing.T) {
	c, err := parseCropMode("none")
	if err != nil || c != nil {
		t.Errorf("Expected nil cropper for none, got %v, %v", c, err)
	}
	if c, err := parseCropMode("center"); err != nil || c == nil {
		t.Errorf("Expected center cropper, got %v, %v", c, err)
	}
	if c, err := parseCropMode("10, 20, 30, 40"); err != nil || c == nil {
		t.Errorf("Expected rect cropper, got %v, %v", c, err)
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := runRoot(t, "presets")
	if err != nil {
		t.Fatalf("presets failed: %v", err)
	}
	for _, want := range []string{"Instagram Square", "1080x1920", "16:9", "original_cropped", "GIF"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}
