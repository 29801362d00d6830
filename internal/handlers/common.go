package handlers

import (
	"encoding/json"
	"errors"
	"image"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/cropper/internal/config"
	"github.com/lehigh-university-libraries/cropper/internal/crop"
	"github.com/lehigh-university-libraries/cropper/internal/export"
	"github.com/lehigh-university-libraries/cropper/internal/imageset"
	"github.com/lehigh-university-libraries/cropper/internal/models"
	"github.com/lehigh-university-libraries/cropper/internal/session"
	"github.com/lehigh-university-libraries/cropper/internal/storage"
)

type Handler struct {
	sessionStore *storage.SessionStore
	config       *config.Config
}

func New(cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Handler{
		sessionStore: storage.New(),
		config:       cfg,
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sessions", h.HandleSessions)
	mux.HandleFunc("POST /api/upload", h.HandleUpload)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleSessionDetail)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.HandleSessionDelete)
	mux.HandleFunc("POST /api/sessions/{id}/order", h.HandleOrder)
	mux.HandleFunc("POST /api/sessions/{id}/settings", h.HandleSettings)
	mux.HandleFunc("POST /api/sessions/{id}/actions/{action}", h.HandleAction)
	mux.HandleFunc("POST /api/sessions/{id}/keys/{key}", h.HandleShortcut)
	mux.HandleFunc("POST /api/sessions/{id}/crop", h.HandleCrop)
	mux.HandleFunc("GET /api/sessions/{id}/display", h.HandleDisplay)
	mux.HandleFunc("GET /api/sessions/{id}/preview", h.HandlePreview)
	mux.HandleFunc("GET /api/sessions/{id}/download", h.HandleDownload)
	mux.HandleFunc("GET /api/sessions/{id}/download/all", h.HandleDownloadAll)
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// writeSessionError maps domain errors onto HTTP status codes.
func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNoImages):
		code = http.StatusConflict
	case errors.Is(err, errTooLarge):
		code = http.StatusRequestEntityTooLarge
	case errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, export.ErrUnknownTemplate),
		errors.Is(err, crop.ErrUnknownAspect),
		errors.Is(err, crop.ErrUnknownPreset),
		errors.Is(err, crop.ErrEmptyRegion),
		errors.Is(err, session.ErrUnknownAction),
		errors.Is(err, imageset.ErrUnsupportedImage),
		errors.Is(err, image.ErrFormat):
		code = http.StatusBadRequest
	}
	h.writeError(w, err.Error(), code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*storage.Entry, bool) {
	entry, exists := h.sessionStore.Get(r.PathValue("id"))
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return entry, true
}

func statusOf(entry *storage.Entry, s *session.Session) models.SessionStatus {
	status := s.Status()
	status.ID = entry.ID
	status.CreatedAt = entry.CreatedAt
	return status
}

// respond runs fn against the session and answers with its status, or with the mapped error.
func (h *Handler) respond(w http.ResponseWriter, entry *storage.Entry, fn func(s *session.Session) error) {
	var status models.SessionStatus
	err := entry.Do(func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		status = statusOf(entry, s)
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeJSON(w, status)
}
