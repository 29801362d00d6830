package crop

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmptyRegion is returned when a requested crop region has no pixels inside the image.
var ErrEmptyRegion = errors.New("crop region is empty")

// Cropper selects a region of the displayed image. Implementations must not
// modify img and should return a fresh buffer on every call.
type Cropper interface {
	Crop(img image.Image, aspect AspectRatio) (image.Image, error)
}

// CenterCropper takes the largest centred region that satisfies the aspect
// ratio. With Free it returns a copy of the whole image.
type CenterCropper struct{}

func (CenterCropper) Crop(img image.Image, aspect AspectRatio) (image.Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyRegion
	}
	if aspect.IsFree() {
		return imaging.Clone(img), nil
	}
	r := FitAspect(b, aspect)
	return imaging.CropCenter(img, r.Dx(), r.Dy()), nil
}

// RectCropper crops an explicit rectangle given relative to the image origin.
// The rectangle is clamped to the image and, when an aspect ratio is active,
// shrunk around its centre until it matches.
type RectCropper struct {
	Rect image.Rectangle
}

func (c RectCropper) Crop(img image.Image, aspect AspectRatio) (image.Image, error) {
	b := img.Bounds()
	r := c.Rect.Canon().Add(b.Min).Intersect(b)
	if r.Empty() {
		return nil, ErrEmptyRegion
	}
	if !aspect.IsFree() {
		r = FitAspect(r, aspect)
	}
	return imaging.Crop(img, r), nil
}

// FitAspect returns the largest rectangle centred in r whose sides follow aspect.
func FitAspect(r image.Rectangle, aspect AspectRatio) image.Rectangle {
	if aspect.IsFree() {
		return r
	}
	w, h := r.Dx(), r.Dy()
	nw, nh := w, h
	if w*aspect.H > h*aspect.W {
		nw = h * aspect.W / aspect.H
	} else {
		nh = w * aspect.H / aspect.W
	}
	nw = max(nw, 1)
	nh = max(nh, 1)
	x0 := r.Min.X + (w-nw)/2
	y0 := r.Min.Y + (h-nh)/2
	return image.Rect(x0, y0, x0+nw, y0+nh)
}
