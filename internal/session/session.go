// Package session coordinates one interactive cropping session: navigation,
// zoom, aspect and preset selection, crop history and export.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/cropper/internal/crop"
	"github.com/lehigh-university-libraries/cropper/internal/export"
	"github.com/lehigh-university-libraries/cropper/internal/history"
	"github.com/lehigh-university-libraries/cropper/internal/imageset"
	"github.com/lehigh-university-libraries/cropper/internal/models"
)

var (
	// ErrNoImages is returned by operations that need a current image when none are loaded.
	ErrNoImages      = errors.New("nothing to process")
	ErrUnknownAction = errors.New("unknown action")
)

// Direction for Navigate
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Options configures a new Session.
type Options struct {
	Format      export.Format
	Template    export.TemplateMode
	CustomBase  string
	JPEGQuality int
	Concurrency int
}

// Session owns all state for one uploaded image set. It is not safe for
// concurrent use; callers serialize access.
type Session struct {
	images *imageset.Set
	index  int
	zoom   float64

	aspect crop.AspectRatio
	preset *crop.Preset

	format     export.Format
	template   export.TemplateMode
	customBase string

	history *history.History
	crops   *crop.State
	engine  *export.Engine
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.Format == "" {
		opts.Format = export.PNG
	}
	if opts.Template == "" {
		opts.Template = export.TemplateOriginal
	}
	h := history.New(history.DefaultLimit)
	return &Session{
		images:     imageset.New(nil),
		zoom:       crop.DefaultZoom,
		format:     opts.Format,
		template:   opts.Template,
		customBase: opts.CustomBase,
		history:    h,
		crops:      crop.NewState(h),
		engine:     export.NewEngine(export.Encoder{JPEGQuality: opts.JPEGQuality}, opts.Concurrency),
	}
}

// reset clears everything tied to the previous image set. Format and
// template mode survive since they are output settings, not edits.
func (s *Session) reset() {
	s.index = 0
	s.zoom = crop.DefaultZoom
	s.preset = nil
	s.customBase = ""
	s.history.Reset()
	s.crops.Clear()
}

// Upload replaces the image set and resets crops, history, preset and zoom.
func (s *Session) Upload(images []imageset.Image) {
	s.images.Replace(images)
	s.reset()
	slog.Info("Image set uploaded", "images", s.images.Len())
}

// Reorder rearranges the current images by filename. Per-index state no
// longer matches its image afterwards, so it is reset like an upload.
func (s *Session) Reorder(names []string) {
	s.Upload(imageset.Reorder(s.images.Images(), names))
}

// Len reports how many images are loaded
func (s *Session) Len() int { return s.images.Len() }

// Index returns the active image index.
func (s *Session) Index() int { return s.index }

// Current returns the active image.
func (s *Session) Current() (imageset.Image, error) {
	if s.images.Len() == 0 {
		return imageset.Image{}, ErrNoImages
	}
	return s.images.At(s.index)
}

// Navigate moves to the next or previous image, wrapping around, and resets zoom.
func (s *Session) Navigate(dir Direction) error {
	n := s.images.Len()
	if n == 0 {
		return ErrNoImages
	}
	s.index = ((s.index+int(dir))%n + n) % n
	s.zoom = crop.DefaultZoom
	return nil
}

// GoTo jumps to index, resetting zoom.
func (s *Session) GoTo(index int) error {
	if s.images.Len() == 0 {
		return ErrNoImages
	}
	if _, err := s.images.At(index); err != nil {
		return err
	}
	s.index = index
	s.zoom = crop.DefaultZoom
	return nil
}

// Zoom returns the display zoom factor
func (s *Session) Zoom() float64 { return s.zoom }

// SetZoom sets the display zoom, clamped to the supported range, and returns the value applied.
func (s *Session) SetZoom(factor float64) float64 {
	s.zoom = crop.ClampZoom(factor)
	return s.zoom
}

// ResetZoom restores the default zoom.
func (s *Session) ResetZoom() { s.zoom = crop.DefaultZoom }

// SetAspect selects a free-form aspect ratio and clears any preset.
func (s *Session) SetAspect(a crop.AspectRatio) {
	s.aspect = a
	s.preset = nil
}

// SelectPreset activates p, overriding the aspect ratio for future crops.
func (s *Session) SelectPreset(p crop.Preset) {
	s.preset = &p
}

// ClearPreset deactivates the preset.
func (s *Session) ClearPreset() { s.preset = nil }

// Preset returns the active preset, if any.
func (s *Session) Preset() (crop.Preset, bool) {
	if s.preset == nil {
		return crop.Preset{}, false
	}
	return *s.preset, true
}

// ActiveAspect is the constraint handed to the cropper: the preset ratio when
// a preset is selected, otherwise the chosen aspect ratio.
func (s *Session) ActiveAspect() crop.AspectRatio {
	if s.preset != nil {
		return s.preset.Aspect
	}
	return s.aspect
}

// SetFormat changes the output format.
func (s *Session) SetFormat(f export.Format) error {
	parsed, err := export.ParseFormat(string(f))
	if err != nil {
		return err
	}
	s.format = parsed
	return nil
}

// SetTemplate changes the filename template mode.
func (s *Session) SetTemplate(mode export.TemplateMode) error {
	parsed, err := export.ParseTemplate(string(mode))
	if err != nil {
		return err
	}
	s.template = parsed
	return nil
}

// SetCustomBase sets the base name used by the custom template.
func (s *Session) SetCustomBase(base string) { s.customBase = base }

// Settings returns the export settings currently in effect.
func (s *Session) Settings() export.Settings {
	return export.Settings{
		Format:     s.format,
		Template:   s.template,
		CustomBase: s.customBase,
	}
}

// Display returns the active image scaled by the current zoom, which is what
// a cropper works on.
func (s *Session) Display() (*imageset.Image, error) {
	img, err := s.Current()
	if err != nil {
		return nil, err
	}
	img.Pixels = imageset.ToRGB(crop.Zoom(img.Pixels, s.zoom))
	return &img, nil
}

// Crop runs cropper over the zoomed active image and commits the result.
// It reports whether the stored crop changed.
func (s *Session) Crop(cropper crop.Cropper) (bool, error) {
	img, err := s.Current()
	if err != nil {
		return false, err
	}
	raw, err := cropper.Crop(crop.Zoom(img.Pixels, s.zoom), s.ActiveAspect())
	if err != nil {
		return false, fmt.Errorf("failed to crop %s: %w", img.Name, err)
	}
	changed := s.crops.Apply(s.index, raw, s.preset)
	slog.Debug("Crop applied", "index", s.index, "name", img.Name, "changed", changed, "aspect", s.ActiveAspect().String())
	return changed, nil
}

// CurrentCrop returns the committed crop of the active image, or the original when there is none.
func (s *Session) CurrentCrop() (imageset.Image, bool, error) {
	img, err := s.Current()
	if err != nil {
		return imageset.Image{}, false, err
	}
	if c, ok := s.crops.Get(s.index); ok {
		img.Pixels = c
		return img, true, nil
	}
	return img, false, nil
}

// ResetCrop drops the crop of the active image.
func (s *Session) ResetCrop() error {
	if s.images.Len() == 0 {
		return ErrNoImages
	}
	s.crops.Reset(s.index)
	return nil
}

// Undo restores the previous crop of the active image. It reports whether
// anything changed; an empty history is not an error.
func (s *Session) Undo() (bool, error) {
	if s.images.Len() == 0 {
		return false, ErrNoImages
	}
	current, _ := s.crops.Get(s.index)
	restored, ok := s.history.Undo(s.index, current)
	if ok {
		s.crops.Set(s.index, restored)
	}
	return ok, nil
}

// Redo re-applies the most recently undone crop of the active image.
func (s *Session) Redo() (bool, error) {
	if s.images.Len() == 0 {
		return false, ErrNoImages
	}
	current, _ := s.crops.Get(s.index)
	restored, ok := s.history.Redo(s.index, current)
	if ok {
		s.crops.Set(s.index, restored)
	}
	return ok, nil
}

// ExportCurrent encodes the active image's crop, falling back to the original.
func (s *Session) ExportCurrent() (*export.File, error) {
	if s.images.Len() == 0 {
		return nil, ErrNoImages
	}
	return s.engine.ExportSingle(s.images, s.crops, s.index, s.Settings())
}

// ExportAll encodes every image into one archive.
func (s *Session) ExportAll() (*export.Archive, error) {
	if s.images.Len() == 0 {
		return nil, ErrNoImages
	}
	return s.engine.ExportAll(s.images, s.crops, s.Settings())
}

// Status builds a snapshot of the session for presentation.
func (s *Session) Status() models.SessionStatus {
	status := models.SessionStatus{
		Images:     make([]models.ImageItem, 0, s.images.Len()),
		Index:      s.index,
		Count:      s.images.Len(),
		Zoom:       s.zoom,
		Aspect:     s.ActiveAspect().String(),
		Format:     string(s.format),
		Template:   string(s.template),
		CustomBase: s.customBase,
	}
	if s.preset != nil {
		status.Preset = s.preset.Name
	}

	for _, img := range s.images.Images() {
		item := models.ImageItem{
			Index:  img.Index,
			Name:   img.Name,
			Width:  img.Width(),
			Height: img.Height(),
		}
		if c, ok := s.crops.Get(img.Index); ok {
			item.Cropped = true
			item.CropWidth = c.Rect.Dx()
			item.CropHeight = c.Rect.Dy()
		}
		item.UndoDepth, item.RedoDepth = s.history.Depth(img.Index)
		status.Images = append(status.Images, item)
	}
	if s.index < len(status.Images) {
		status.Current = &status.Images[s.index]
	}
	return status
}
