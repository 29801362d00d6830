package cmd

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/cropper/internal/crop"
	"github.com/lehigh-university-libraries/cropper/internal/export"
	"github.com/lehigh-university-libraries/cropper/internal/images"
	"github.com/lehigh-university-libraries/cropper/internal/results"
	"github.com/lehigh-university-libraries/cropper/internal/session"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	aspect     string
	preset     string
	format     string
	template   string
	customBase string
	order      string
	cropMode   string
	zoom       float64
	output     string
	report     string
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export [flags] IMAGE...",
		Short: "Crop a batch of images and write them to a ZIP archive",
		Long: `Loads images from local paths or http(s) URLs, crops each one the same way
and writes every result into a deflate-compressed ZIP archive.

--crop selects the region: "center" takes the largest centred region for the
aspect ratio, "none" exports the originals, and "x,y,w,h" crops an explicit
rectangle of the zoomed image. A preset overrides --aspect and resizes each
crop to the preset's dimensions.

Images that fail to encode are left out of the archive and reported; the rest
are still written.`,
		Example: `  # Square crops for Instagram
  cropper export --preset "Instagram Square" photos/*.jpg

  # 16:9 JPEG crops named after the originals with a _cropped suffix
  cropper export --aspect 16:9 --format JPEG --template original_cropped a.png b.png

  # Custom names and an export report
  cropper export --template custom --custom-base banner --report export.yaml *.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeExport(cmd, opts, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.aspect, "aspect", "Free", "Aspect ratio (Free, 1:1, 16:9, 4:5, 9:16)")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "Preset name (see `cropper presets`)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format (PNG, JPEG, GIF; default from config)")
	cmd.Flags().StringVar(&flags.template, "template", "", "Filename template (original, original_cropped, custom; default from config)")
	cmd.Flags().StringVar(&flags.customBase, "custom-base", "", "Base name for the custom template")
	cmd.Flags().StringVar(&flags.order, "order", "", "Comma-separated filenames giving the processing order")
	cmd.Flags().StringVar(&flags.cropMode, "crop", "center", `Crop region: "center", "none" or "x,y,w,h"`)
	cmd.Flags().Float64Var(&flags.zoom, "zoom", crop.DefaultZoom, "Zoom applied before cropping (0.3 to 3.0)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", export.ArchiveName, "Path of the ZIP archive to write")
	cmd.Flags().StringVar(&flags.report, "report", "", "Write a YAML export report to this path")

	return cmd
}

func executeExport(cmd *cobra.Command, opts *rootOptions, flags *exportFlags, sources []string) error {
	cropper, err := parseCropMode(flags.cropMode)
	if err != nil {
		return err
	}

	loader := images.NewLoader(opts.cfg.MaxUploadBytes)
	loaded, err := loader.LoadAll(sources)
	if err != nil {
		return err
	}

	s := session.New(opts.cfg.SessionOptions())
	s.Upload(loaded)
	if flags.order != "" {
		s.Reorder(strings.Split(flags.order, ","))
	}

	// settings are applied after upload, which resets them
	if err := applyExportSettings(s, flags, opts.cfg.CustomBase); err != nil {
		return err
	}

	if cropper != nil {
		for i := 0; i < s.Len(); i++ {
			if err := s.GoTo(i); err != nil {
				return err
			}
			s.SetZoom(flags.zoom)
			if _, err := s.Crop(cropper); err != nil {
				// an uncropped image still exports as the original
				slog.Warn("Crop failed, exporting original", "index", i, "err", err)
			}
		}
	}

	archive, err := s.ExportAll()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(flags.output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(flags.output, archive.Data, 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	if flags.report != "" {
		if err := results.SaveToYAML(flags.report, results.Build(s.Status(), archive, flags.output)); err != nil {
			return err
		}
		slog.Info("Export report saved", "path", flags.report)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d of %d images to %s\n", len(archive.Entries), s.Len(), flags.output)
	if len(archive.Failures) > 0 {
		for _, f := range archive.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "  failed: %v\n", f)
		}
		return fmt.Errorf("%d of %d images failed to export", len(archive.Failures), s.Len())
	}
	return nil
}

func applyExportSettings(s *session.Session, flags *exportFlags, defaultBase string) error {
	aspect, err := crop.ParseAspect(flags.aspect)
	if err != nil {
		return err
	}
	s.SetAspect(aspect)

	if flags.preset != "" {
		preset, err := crop.LookupPreset(flags.preset)
		if err != nil {
			return err
		}
		s.SelectPreset(preset)
	}
	if flags.format != "" {
		if err := s.SetFormat(export.Format(flags.format)); err != nil {
			return err
		}
	}
	if flags.template != "" {
		if err := s.SetTemplate(export.TemplateMode(flags.template)); err != nil {
			return err
		}
	}

	base := flags.customBase
	if base == "" {
		base = defaultBase
	}
	s.SetCustomBase(base)
	return nil
}

// parseCropMode returns nil for "none".
func parseCropMode(mode string) (crop.Cropper, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "center":
		return crop.CenterCropper{}, nil
	case "none":
		return nil, nil
	}

	parts := strings.Split(mode, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid --crop %q: want center, none or x,y,w,h", mode)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid --crop %q: %w", mode, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return nil, fmt.Errorf("invalid --crop %q: width and height must be positive", mode)
	}
	return crop.RectCropper{Rect: image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3])}, nil
}
