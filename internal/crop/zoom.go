package crop

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	MinZoom     = 0.3
	MaxZoom     = 3.0
	DefaultZoom = 1.0
)

// ClampZoom limits factor to [MinZoom, MaxZoom]. NaN maps to DefaultZoom.
func ClampZoom(factor float64) float64 {
	if math.IsNaN(factor) {
		return DefaultZoom
	}
	return min(max(factor, MinZoom), MaxZoom)
}

// Zoom scales img by the clamped factor for display. The result is what the
// cropper sees; it never ends up in the crop history on its own.
func Zoom(img image.Image, factor float64) image.Image {
	factor = ClampZoom(factor)
	if factor == DefaultZoom {
		return img
	}
	b := img.Bounds()
	w := max(int(float64(b.Dx())*factor), 1)
	h := max(int(float64(b.Dy())*factor), 1)
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
