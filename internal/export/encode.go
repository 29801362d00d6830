// Package export encodes crops into downloadable files and ZIP archives.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// DefaultJPEGQuality matches the quality most image libraries default to.
const DefaultJPEGQuality = 75

// Encoder serializes pixel buffers into one of the supported formats.
type Encoder struct {
	JPEGQuality int
}

// Encode writes img in format and returns the bytes with the file extension.
func (e Encoder) Encode(img image.Image, format Format) ([]byte, string, error) {
	if img == nil {
		return nil, "", fmt.Errorf("nothing to encode")
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case PNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case JPEG:
		quality := e.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case GIF:
		err = encodeGIF(&buf, img)
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode %s: %w", format, err)
	}

	return buf.Bytes(), format.Extension(), nil
}

// encodeGIF quantizes img to an adaptive palette and writes it as a
// single-frame animation.
func encodeGIF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	palette := MedianCut{}.Quantize(make(color.Palette, 0, 256), img)
	frame := image.NewPaletted(b, palette)
	draw.Draw(frame, b, img, b.Min, draw.Src)

	return gif.EncodeAll(w, &gif.GIF{
		Image: []*image.Paletted{frame},
		Delay: []int{0},
		Config: image.Config{
			ColorModel: palette,
			Width:      b.Dx(),
			Height:     b.Dy(),
		},
	})
}
