package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/cropper/internal/crop"
	"github.com/lehigh-university-libraries/cropper/internal/export"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type presetListing struct {
	AspectRatios []string        `yaml:"aspect_ratios"`
	Presets      []presetSummary `yaml:"presets"`
	Formats      []string        `yaml:"formats"`
	Templates    []string        `yaml:"templates"`
}

type presetSummary struct {
	Name   string `yaml:"name"`
	Aspect string `yaml:"aspect"`
	Size   string `yaml:"size"`
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List aspect ratios, presets and output options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing := presetListing{
				Templates: []string{
					string(export.TemplateOriginal),
					string(export.TemplateOriginalCropped),
					string(export.TemplateCustom),
				},
			}
			for _, a := range crop.AspectRatios() {
				listing.AspectRatios = append(listing.AspectRatios, a.String())
			}
			for _, p := range crop.Presets() {
				listing.Presets = append(listing.Presets, presetSummary{
					Name:   p.Name,
					Aspect: p.Aspect.String(),
					Size:   fmt.Sprintf("%dx%d", p.Width, p.Height),
				})
			}
			for _, f := range export.Formats() {
				listing.Formats = append(listing.Formats, string(f))
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(listing); err != nil {
				return fmt.Errorf("failed to write presets: %w", err)
			}
			return enc.Close()
		},
	}
}
