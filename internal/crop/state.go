// Package crop holds the committed crop for each image along with the
// aspect ratios, presets and croppers that produce it.
package crop

import (
	"bytes"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/lehigh-university-libraries/cropper/internal/imageset"
)

// Recorder receives the crop displaced by a genuine change.
type Recorder interface {
	RecordChange(index int, previous *image.NRGBA)
	ClearRedo(index int)
}

// State maps image indices to their committed crop. Crops are replaced on
// every change and never mutated in place.
type State struct {
	crops   map[int]*image.NRGBA
	history Recorder
}

// NewState creates an empty State that reports changes to history.
func NewState(history Recorder) *State {
	return &State{
		crops:   make(map[int]*image.NRGBA),
		history: history,
	}
}

// Apply commits raw as the crop for index, resizing it first when preset has
// fixed dimensions. The previous crop is recorded only when the new pixels
// differ from it; the first crop for an index is stored without an undo
// entry but still drops that index's redo entries.
// It reports whether the stored crop changed.
func (s *State) Apply(index int, raw image.Image, preset *Preset) bool {
	if raw == nil {
		return false
	}
	var next *image.NRGBA
	if preset != nil && preset.HasSize() {
		next = imageset.ToRGB(imaging.Resize(raw, preset.Width, preset.Height, imaging.Lanczos))
	} else {
		next = imageset.ToRGB(raw)
	}

	previous, exists := s.crops[index]
	if !exists {
		if s.history != nil {
			s.history.ClearRedo(index)
		}
		s.crops[index] = next
		slog.Debug("Initial crop stored", "index", index, "width", next.Rect.Dx(), "height", next.Rect.Dy())
		return true
	}
	if Equal(previous, next) {
		return false
	}

	if s.history != nil {
		s.history.RecordChange(index, previous)
	}
	s.crops[index] = next
	slog.Debug("Crop changed", "index", index, "width", next.Rect.Dx(), "height", next.Rect.Dy())
	return true
}

// Get returns the committed crop for index, if any.
func (s *State) Get(index int) (*image.NRGBA, bool) {
	img, ok := s.crops[index]
	return img, ok
}

// Set installs img directly, used when undo or redo restores an entry.
// A nil img removes the crop.
func (s *State) Set(index int, img *image.NRGBA) {
	if img == nil {
		delete(s.crops, index)
		return
	}
	s.crops[index] = img
}

// Reset removes the crop for index so reads fall back to the original image.
func (s *State) Reset(index int) {
	delete(s.crops, index)
}

// Clear removes every crop.
func (s *State) Clear() {
	clear(s.crops)
}

// Len reports how many indices have a committed crop.
func (s *State) Len() int { return len(s.crops) }

// Equal reports whether a and b have the same size and identical pixel bytes.
func Equal(a, b *image.NRGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Rect.Size() != b.Rect.Size() || a.Stride != b.Stride {
		return false
	}
	return bytes.Equal(a.Pix, b.Pix)
}
