package crop

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

type recorder struct {
	calls   []*image.NRGBA
	cleared []int
}

func (r *recorder) RecordChange(index int, previous *image.NRGBA) {
	r.calls = append(r.calls, previous)
}

func (r *recorder) ClearRedo(index int) {
	r.cleared = append(r.cleared, index)
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestApplyFirstCropHasNoHistory(t *testing.T) {
	rec := &recorder{}
	s := NewState(rec)

	if !s.Apply(0, solid(4, 4, color.NRGBA{R: 10, A: 255}), nil) {
		t.Fatal("Expected first crop to be stored")
	}
	if len(rec.calls) != 0 {
		t.Errorf("Expected no history for first crop, got %d entries", len(rec.calls))
	}
	if len(rec.cleared) != 1 || rec.cleared[0] != 0 {
		t.Errorf("Expected redo for index 0 to be cleared, got %v", rec.cleared)
	}
	if _, ok := s.Get(0); !ok {
		t.Error("Expected crop for index 0")
	}
}

func TestApplyIdenticalBytesIsNoop(t *testing.T) {
	rec := &recorder{}
	s := NewState(rec)
	c := color.NRGBA{R: 200, G: 20, B: 5, A: 255}

	s.Apply(0, solid(8, 6, c), nil)
	// A fresh buffer with the same content, as a cropper re-render would produce.
	if s.Apply(0, solid(8, 6, c), nil) {
		t.Error("Expected identical crop to be ignored")
	}
	if len(rec.calls) != 0 {
		t.Errorf("Expected no history entries, got %d", len(rec.calls))
	}
}

func TestApplyChangeRecordsPrevious(t *testing.T) {
	rec := &recorder{}
	s := NewState(rec)

	s.Apply(0, solid(8, 6, color.NRGBA{R: 1, A: 255}), nil)
	first, _ := s.Get(0)
	if !s.Apply(0, solid(8, 6, color.NRGBA{R: 2, A: 255}), nil) {
		t.Fatal("Expected changed crop to be stored")
	}
	if len(rec.calls) != 1 || rec.calls[0] != first {
		t.Fatalf("Expected previous crop to be recorded once, got %d entries", len(rec.calls))
	}

	// Same pixels, different size
	s.Apply(0, solid(6, 8, color.NRGBA{R: 2, A: 255}), nil)
	if len(rec.calls) != 2 {
		t.Errorf("Expected size change to be recorded, got %d entries", len(rec.calls))
	}
}

func TestApplyPresetResizes(t *testing.T) {
	preset, err := LookupPreset("Instagram Square")
	if err != nil {
		t.Fatalf("LookupPreset: %v", err)
	}

	tests := []struct {
		name string
		w, h int
	}{
		{"wide", 300, 100},
		{"tall", 90, 400},
		{"tiny", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(nil)
			s.Apply(0, solid(tt.w, tt.h, color.NRGBA{G: 90, A: 255}), &preset)
			got, _ := s.Get(0)
			if got.Rect.Dx() != 1080 || got.Rect.Dy() != 1080 {
				t.Errorf("Expected 1080x1080, got %dx%d", got.Rect.Dx(), got.Rect.Dy())
			}
		})
	}
}

func TestApplyForcesOpaque(t *testing.T) {
	s := NewState(nil)
	s.Apply(0, solid(2, 2, color.NRGBA{R: 9, A: 10}), nil)
	got, _ := s.Get(0)
	for i := 3; i < len(got.Pix); i += 4 {
		if got.Pix[i] != 0xff {
			t.Fatalf("Expected opaque pixels, got alpha %d", got.Pix[i])
		}
	}
}

func TestResetAndClear(t *testing.T) {
	s := NewState(nil)
	for i := 0; i < 3; i++ {
		s.Apply(i, solid(2, 2, color.NRGBA{R: uint8(i), A: 255}), nil)
	}

	s.Reset(1)
	if _, ok := s.Get(1); ok {
		t.Error("Expected index 1 to be reset")
	}

	if s.Len() != 2 {
		t.Errorf("Expected 2 crops after reset, got %d", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Expected no crops after clear, got %d", s.Len())
	}
}

func TestParseAspect(t *testing.T) {
	tests := []struct {
		input    string
		expected AspectRatio
		wantErr  bool
	}{
		{"Free", Free, false},
		{"", Free, false},
		{"1:1", AspectRatio{1, 1}, false},
		{"16:9", AspectRatio{16, 9}, false},
		{"4:5", AspectRatio{4, 5}, false},
		{"9:16", AspectRatio{9, 16}, false},
		{"3:2", Free, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAspect(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAspect) {
					t.Errorf("Expected ErrUnknownAspect, got %v", err)
				}
				return
			}
			if err != nil || got != tt.expected {
				t.Errorf("Expected %v, got %v (err %v)", tt.expected, got, err)
			}
		})
	}
}

func TestLookupPreset(t *testing.T) {
	p, err := LookupPreset("tiktok / reels")
	if err != nil {
		t.Fatalf("LookupPreset: %v", err)
	}
	if p.Width != 1080 || p.Height != 1920 || p.Aspect != (AspectRatio{9, 16}) {
		t.Errorf("Unexpected preset %+v", p)
	}
	if _, err := LookupPreset("Myspace"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Expected ErrUnknownPreset, got %v", err)
	}
	if len(Presets()) != 4 {
		t.Errorf("Expected 4 presets, got %d", len(Presets()))
	}
}

func TestCenterCropper(t *testing.T) {
	src := solid(200, 100, color.NRGBA{B: 255, A: 255})

	tests := []struct {
		aspect AspectRatio
		w, h   int
	}{
		{Free, 200, 100},
		{AspectRatio{1, 1}, 100, 100},
		{AspectRatio{16, 9}, 177, 100},
		{AspectRatio{9, 16}, 56, 100},
	}
	for _, tt := range tests {
		t.Run(tt.aspect.String(), func(t *testing.T) {
			got, err := CenterCropper{}.Crop(src, tt.aspect)
			if err != nil {
				t.Fatalf("Crop: %v", err)
			}
			b := got.Bounds()
			if b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("Expected %dx%d, got %dx%d", tt.w, tt.h, b.Dx(), b.Dy())
			}
		})
	}
}

func TestRectCropper(t *testing.T) {
	src := solid(100, 100, color.NRGBA{R: 255, A: 255})

	got, err := RectCropper{Rect: image.Rect(10, 10, 90, 50)}.Crop(src, AspectRatio{1, 1})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("Expected 40x40, got %dx%d", b.Dx(), b.Dy())
	}

	got, err = RectCropper{Rect: image.Rect(50, 50, 500, 500)}.Crop(src, Free)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("Expected clamped 50x50, got %dx%d", b.Dx(), b.Dy())
	}

	if _, err := (RectCropper{Rect: image.Rect(200, 200, 300, 300)}).Crop(src, Free); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("Expected ErrEmptyRegion, got %v", err)
	}
}

func TestZoom(t *testing.T) {
	src := solid(100, 50, color.NRGBA{A: 255})

	tests := []struct {
		factor float64
		w, h   int
	}{
		{1.0, 100, 50},
		{2.0, 200, 100},
		{0.5, 50, 25},
		{0.1, 30, 15},
		{10, 300, 150},
	}
	for _, tt := range tests {
		got := Zoom(src, tt.factor).Bounds()
		if got.Dx() != tt.w || got.Dy() != tt.h {
			t.Errorf("factor %v: expected %dx%d, got %dx%d", tt.factor, tt.w, tt.h, got.Dx(), got.Dy())
		}
	}

	if ClampZoom(0) != MinZoom || ClampZoom(99) != MaxZoom || ClampZoom(1.5) != 1.5 {
		t.Error("ClampZoom did not clamp to the zoom range")
	}
	if got := ClampZoom(math.NaN()); got != DefaultZoom {
		t.Errorf("Expected NaN to clamp to %v, got %v", DefaultZoom, got)
	}
	if got := Zoom(src, math.NaN()).Bounds(); got.Dx() != 100 || got.Dy() != 50 {
		t.Errorf("Expected NaN zoom to keep 100x50, got %dx%d", got.Dx(), got.Dy())
	}
}
