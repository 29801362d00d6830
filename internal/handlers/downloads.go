package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/cropper/internal/export"
	"github.com/lehigh-university-libraries/cropper/internal/session"
)

// HandleDownload sends the active image, cropped if a crop exists.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var file *export.File
	err := entry.Do(func(s *session.Session) (err error) {
		file, err = s.ExportCurrent()
		return err
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	h.writeAttachment(w, file.Name, file.MIMEType, file.Data)
}

// HandleDownloadAll sends every image in one ZIP archive. Images that could
// not be encoded are left out and listed in the X-Export-Failures header.
func (h *Handler) HandleDownloadAll(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var archive *export.Archive
	err := entry.Do(func(s *session.Session) (err error) {
		archive, err = s.ExportAll()
		return err
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	if len(archive.Failures) > 0 {
		failed := ""
		for i, f := range archive.Failures {
			if i > 0 {
				failed += ","
			}
			failed += strconv.Itoa(f.Index)
		}
		w.Header().Set("X-Export-Failures", failed)
		slog.Warn("Batch download incomplete", "session_id", entry.ID, "failed", failed)
	}
	h.writeAttachment(w, archive.Name, "application/zip", archive.Data)
}

func (h *Handler) writeAttachment(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write download", "name", name, "err", err)
	}
}
