package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/cropper/internal/config"
	"github.com/spf13/cobra"
)

// rootOptions carries persistent flags and the loaded configuration to subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cropper",
		Short: "Crop, resize and batch-export images for social media",
		Long: `Cropper crops a set of images against an aspect ratio or social-media preset
and exports them one at a time or as a ZIP archive.

Every crop is kept in a bounded per-image undo/redo history for the length of
the session. Nothing is persisted once the process exits.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if !cmd.Flags().Changed("log-level") {
				if v := os.Getenv("CROPPER_LOG_LEVEL"); v != "" {
					opts.logLevel = v
				}
			}
			if err := setupLogging(opts.logLevel); err != nil {
				return err
			}

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "cropper.yaml", "Path to YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newPresetsCmd())

	return cmd
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}
