package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/cropper/internal/imageset"
	"github.com/lehigh-university-libraries/cropper/internal/session"
	"github.com/lehigh-university-libraries/cropper/internal/storage"
)

var errTooLarge = errors.New("file too large")

// HandleUpload accepts one or more images as multipart "files" (or "file").
// Without session_id a new session is created; with it the session's image
// set is replaced. An optional "order" field lists filenames in the desired order.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		h.writeError(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	images := make([]imageset.Image, 0, len(headers))
	for _, header := range headers {
		img, err := h.readUpload(header)
		if err != nil {
			h.writeSessionError(w, err)
			return
		}
		images = append(images, img)
	}
	if order := uploadOrder(r); len(order) > 0 {
		images = imageset.Reorder(images, order)
	}

	var entry *storage.Entry
	if sessionID := r.FormValue("session_id"); sessionID != "" {
		existing, ok := h.sessionStore.Get(sessionID)
		if !ok {
			h.writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		entry = existing
	} else {
		entry = h.sessionStore.Set(uuid.NewString(), session.New(h.config.SessionOptions()))
		slog.Info("Session created", "session_id", entry.ID)
	}

	h.respond(w, entry, func(s *session.Session) error {
		s.Upload(images)
		return nil
	})
}

func (h *Handler) readUpload(header *multipart.FileHeader) (imageset.Image, error) {
	file, err := header.Open()
	if err != nil {
		return imageset.Image{}, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}
	defer file.Close()

	limit := h.config.MaxUploadBytes
	fileData, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return imageset.Image{}, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}
	if int64(len(fileData)) > limit {
		return imageset.Image{}, fmt.Errorf("%s: %w (max %d bytes)", header.Filename, errTooLarge, limit)
	}

	return imageset.Decode(header.Filename, fileData)
}

// uploadOrder accepts repeated "order" fields or one comma-separated value.
func uploadOrder(r *http.Request) []string {
	var order []string
	for _, v := range r.MultipartForm.Value["order"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				order = append(order, name)
			}
		}
	}
	return order
}
