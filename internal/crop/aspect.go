package crop

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAspect = errors.New("unknown aspect ratio")
	ErrUnknownPreset = errors.New("unknown preset")
)

// AspectRatio is a width:height constraint. The zero value is Free.
type AspectRatio struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Free places no constraint on the crop region.
var Free = AspectRatio{}

// IsFree reports whether a is unconstrained
func (a AspectRatio) IsFree() bool { return a.W <= 0 || a.H <= 0 }

func (a AspectRatio) String() string {
	if a.IsFree() {
		return "Free"
	}
	return fmt.Sprintf("%d:%d", a.W, a.H)
}

// aspectRatios is the selectable list, in display order.
var aspectRatios = []AspectRatio{Free, {1, 1}, {16, 9}, {4, 5}, {9, 16}}

// AspectRatios returns the recognised aspect ratios.
func AspectRatios() []AspectRatio {
	out := make([]AspectRatio, len(aspectRatios))
	copy(out, aspectRatios)
	return out
}

// ParseAspect accepts "Free" (or an empty string) and the listed W:H ratios.
func ParseAspect(s string) (AspectRatio, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "free") {
		return Free, nil
	}
	for _, a := range aspectRatios {
		if a.String() == s {
			return a, nil
		}
	}
	return Free, fmt.Errorf("%w: %q", ErrUnknownAspect, s)
}

// Preset is a named aspect ratio with optional fixed output dimensions.
type Preset struct {
	Name   string      `json:"name" yaml:"name"`
	Aspect AspectRatio `json:"aspect" yaml:"aspect"`
	Width  int         `json:"width,omitempty" yaml:"width,omitempty"`
	Height int         `json:"height,omitempty" yaml:"height,omitempty"`
}

// HasSize reports whether crops made under p are resized to Width x Height.
func (p Preset) HasSize() bool { return p.Width > 0 && p.Height > 0 }

var presets = []Preset{
	{Name: "Instagram Square", Aspect: AspectRatio{1, 1}, Width: 1080, Height: 1080},
	{Name: "Instagram Portrait", Aspect: AspectRatio{4, 5}, Width: 1080, Height: 1350},
	{Name: "YouTube Thumbnail", Aspect: AspectRatio{16, 9}, Width: 1280, Height: 720},
	{Name: "TikTok / Reels", Aspect: AspectRatio{9, 16}, Width: 1080, Height: 1920},
}

// Presets returns the social-media presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (Preset, error) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}
