package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/cropper/internal/handlers"
	"github.com/spf13/cobra"
)

// in-flight ZIP downloads can take a while to encode
const shutdownTimeout = 15 * time.Second

// newServeMux mounts the session API and a healthcheck.
func newServeMux(h *handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the cropping API server",
		Long: `Starts the Cropper HTTP API.

Each upload creates an in-memory session. Sessions support cropping against
aspect ratios and presets, undo/redo, navigation, and single or ZIP downloads.
All sessions are lost when the server stops.`,
		Example: `  # Start server on default port 8888
  cropper serve

  # Start server on custom port
  cropper serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = opts.cfg.Port
			}
			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           newServeMux(handlers.New(opts.cfg)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Cropper API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down, waiting for in-flight exports", "timeout", shutdownTimeout)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config, 8888)")

	return cmd
}
