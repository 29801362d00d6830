package export

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrUnknownTemplate   = errors.New("unknown filename template")
)

// Format is one of the closed set of output encodings.
type Format string

const (
	PNG  Format = "PNG"
	JPEG Format = "JPEG"
	GIF  Format = "GIF"
)

// Formats lists the supported output formats.
func Formats() []Format { return []Format{PNG, JPEG, GIF} }

// ParseFormat maps user input to a Format. "jpg" is accepted for JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PNG":
		return PNG, nil
	case "JPEG", "JPG":
		return JPEG, nil
	case "GIF":
		return GIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Extension is the canonical file extension, without the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return "jpg"
	}
	return strings.ToLower(string(f))
}

// MIMEType returns the content type used for a download with extension ext.
func MIMEType(ext string) string {
	return "image/" + ext
}

// TemplateMode selects how exported files are named.
type TemplateMode string

const (
	TemplateOriginal        TemplateMode = "original"
	TemplateOriginalCropped TemplateMode = "original_cropped"
	TemplateCustom          TemplateMode = "custom"
)

// CroppedSuffix is appended to the base name in original_cropped mode.
const CroppedSuffix = "_cropped"

// ParseTemplate validates a filename template mode.
func ParseTemplate(s string) (TemplateMode, error) {
	switch mode := TemplateMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case TemplateOriginal, TemplateOriginalCropped, TemplateCustom:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
}
