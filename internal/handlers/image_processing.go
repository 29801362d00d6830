package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"

	"github.com/lehigh-university-libraries/cropper/internal/crop"
	"github.com/lehigh-university-libraries/cropper/internal/session"
	"golang.org/x/image/draw"
)

// previewWidth is the width of the preview thumbnail in pixels.
const previewWidth = 300

type cropRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// HandleCrop commits a crop of the displayed (zoomed) image. The body holds
// the selected rectangle; an empty body or zero-sized rectangle selects the
// largest centred region for the active aspect ratio.
func (h *Handler) HandleCrop(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request cropRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var cropper crop.Cropper = crop.CenterCropper{}
	if request.Width > 0 && request.Height > 0 {
		cropper = crop.RectCropper{
			Rect: image.Rect(request.X, request.Y, request.X+request.Width, request.Y+request.Height),
		}
	}

	h.respond(w, entry, func(s *session.Session) error {
		_, err := s.Crop(cropper)
		return err
	})
}

// HandleDisplay returns the active image at the current zoom, the view a cropping widget works on.
func (h *Handler) HandleDisplay(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var img image.Image
	err := entry.Do(func(s *session.Session) error {
		display, err := s.Display()
		if err != nil {
			return err
		}
		img = display.Pixels
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writePNG(w, img)
}

// HandlePreview returns a thumbnail of the committed crop, or of the original when there is none.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var src image.Image
	err := entry.Do(func(s *session.Session) error {
		current, _, err := s.CurrentCrop()
		if err != nil {
			return err
		}
		src = current.Pixels
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	b := src.Bounds()
	w.Header().Set("X-Image-Size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
	h.writePNG(w, thumbnail(src, previewWidth))
}

// thumbnail scales src to width, keeping the aspect ratio. Images already
// narrower are returned as they are.
func thumbnail(src image.Image, width int) image.Image {
	b := src.Bounds()
	if b.Dx() <= width {
		return src
	}
	height := max(b.Dy()*width/b.Dx(), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func (h *Handler) writePNG(w http.ResponseWriter, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		h.writeError(w, "Failed to encode image: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.writeError(w, "Failed to write image: "+err.Error(), http.StatusInternalServerError)
	}
}
