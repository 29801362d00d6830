// Package imageset decodes uploaded files and keeps them in upload order.
package imageset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedImage is returned for uploads that are not PNG, JPEG or GIF.
var ErrUnsupportedImage = errors.New("unsupported image type")

// Image is an uploaded file decoded into opaque NRGBA pixels.
// It is never modified after Decode returns.
type Image struct {
	Name   string
	Index  int
	Pixels *image.NRGBA
}

// Width of the decoded image in pixels
func (i Image) Width() int { return i.Pixels.Rect.Dx() }

// Height of the decoded image in pixels
func (i Image) Height() int { return i.Pixels.Rect.Dy() }

// Decode reads PNG, JPEG or GIF bytes and converts them to the fixed RGB colour space.
func Decode(name string, data []byte) (Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	switch format {
	case "png", "jpeg", "gif":
	default:
		return Image{}, fmt.Errorf("%s: %w: %s", name, ErrUnsupportedImage, format)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	return Image{Name: name, Pixels: ToRGB(img)}, nil
}

// ToRGB copies img into a zero-origin NRGBA buffer with every alpha value set to 255.
func ToRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// Set is the ordered collection of images for one session.
// Positions are stable until the next Replace.
type Set struct {
	images []Image
}

// New returns a set holding images in the given order.
func New(images []Image) *Set {
	s := &Set{}
	s.Replace(images)
	return s
}

// Replace swaps the whole sequence. Indices are reassigned from zero.
func (s *Set) Replace(images []Image) {
	s.images = make([]Image, len(images))
	for i, img := range images {
		img.Index = i
		s.images[i] = img
	}
}

// Len reports the number of images
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.images)
}

// At returns the image at index.
func (s *Set) At(index int) (Image, error) {
	if index < 0 || index >= s.Len() {
		return Image{}, fmt.Errorf("image index %d out of range [0, %d)", index, s.Len())
	}
	return s.images[index], nil
}

// Names lists the filenames in order.
func (s *Set) Names() []string {
	names := make([]string, 0, s.Len())
	for _, img := range s.images {
		names = append(names, img.Name)
	}
	return names
}

// Images returns a copy of the current sequence.
func (s *Set) Images() []Image {
	out := make([]Image, s.Len())
	copy(out, s.images)
	return out
}

// Reorder arranges images to follow names. Every image whose name appears in
// names is placed in that order (each name matches at most one image); the
// rest keep their relative order at the end.
func Reorder(images []Image, names []string) []Image {
	used := make([]bool, len(images))
	out := make([]Image, 0, len(images))
	for _, name := range names {
		for i, img := range images {
			if !used[i] && img.Name == name {
				used[i] = true
				out = append(out, img)
				break
			}
		}
	}
	for i, img := range images {
		if !used[i] {
			out = append(out, img)
		}
	}
	return out
}
