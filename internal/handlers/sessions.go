package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/lehigh-university-libraries/cropper/internal/crop"
	"github.com/lehigh-university-libraries/cropper/internal/export"
	"github.com/lehigh-university-libraries/cropper/internal/models"
	"github.com/lehigh-university-libraries/cropper/internal/session"
)

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	entries := h.sessionStore.GetAll()
	sessionList := make([]models.SessionStatus, 0, len(entries))
	for _, entry := range entries {
		_ = entry.Do(func(s *session.Session) error {
			sessionList = append(sessionList, statusOf(entry, s))
			return nil
		})
	}
	sort.Slice(sessionList, func(i, j int) bool {
		return sessionList[i].CreatedAt.Before(sessionList[j].CreatedAt)
	})
	h.writeJSON(w, sessionList)
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.respond(w, entry, func(s *session.Session) error { return nil })
}

func (h *Handler) HandleSessionDelete(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.sessionStore.Delete(entry.ID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleOrder applies a drag-to-reorder result, which resets the session.
func (h *Handler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Order []string `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, entry, func(s *session.Session) error {
		if s.Len() == 0 {
			return session.ErrNoImages
		}
		s.Reorder(request.Order)
		return nil
	})
}

type settingsRequest struct {
	Aspect     *string  `json:"aspect"`
	Preset     *string  `json:"preset"`
	Format     *string  `json:"format"`
	Template   *string  `json:"template"`
	CustomBase *string  `json:"custom_base"`
	Zoom       *float64 `json:"zoom"`
	Index      *int     `json:"index"`
}

// HandleSettings updates any subset of the session settings. All values are
// validated before any is applied. An empty preset clears it.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var (
		aspect   crop.AspectRatio
		preset   crop.Preset
		format   export.Format
		template export.TemplateMode
		err      error
	)
	if request.Aspect != nil {
		if aspect, err = crop.ParseAspect(*request.Aspect); err != nil {
			h.writeSessionError(w, err)
			return
		}
	}
	if request.Preset != nil && *request.Preset != "" {
		if preset, err = crop.LookupPreset(*request.Preset); err != nil {
			h.writeSessionError(w, err)
			return
		}
	}
	if request.Format != nil {
		if format, err = export.ParseFormat(*request.Format); err != nil {
			h.writeSessionError(w, err)
			return
		}
	}
	if request.Template != nil {
		if template, err = export.ParseTemplate(*request.Template); err != nil {
			h.writeSessionError(w, err)
			return
		}
	}

	h.respond(w, entry, func(s *session.Session) error {
		if request.Index != nil {
			if err := s.GoTo(*request.Index); err != nil {
				return err
			}
		}
		if request.Aspect != nil {
			s.SetAspect(aspect)
		}
		if request.Preset != nil {
			if *request.Preset == "" {
				s.ClearPreset()
			} else {
				s.SelectPreset(preset)
			}
		}
		if request.Format != nil {
			_ = s.SetFormat(format)
		}
		if request.Template != nil {
			_ = s.SetTemplate(template)
		}
		if request.CustomBase != nil {
			s.SetCustomBase(*request.CustomBase)
		}
		if request.Zoom != nil {
			s.SetZoom(*request.Zoom)
		}
		return nil
	})
}

func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	action, err := session.ParseAction(r.PathValue("action"))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.respond(w, entry, func(s *session.Session) error { return s.Dispatch(action) })
}

// HandleShortcut maps a keyboard shortcut to its action.
func (h *Handler) HandleShortcut(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	action, found := session.ShortcutAction(r.PathValue("key"))
	if !found {
		h.writeError(w, "Unknown shortcut: "+r.PathValue("key"), http.StatusBadRequest)
		return
	}
	h.respond(w, entry, func(s *session.Session) error { return s.Dispatch(action) })
}
