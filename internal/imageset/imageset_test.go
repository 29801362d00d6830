package imageset

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for i := range src.Pix {
		src.Pix[i] = 0x40
	}

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, src, nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"photo.png", encodePNG(t, src)},
		{"photo.jpg", jpg.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.name, tt.data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if img.Name != tt.name {
				t.Errorf("Expected name %s, got %s", tt.name, img.Name)
			}
			if img.Width() != 4 || img.Height() != 3 {
				t.Errorf("Expected 4x3, got %dx%d", img.Width(), img.Height())
			}
			for i := 3; i < len(img.Pixels.Pix); i += 4 {
				if img.Pixels.Pix[i] != 0xff {
					t.Fatalf("Expected opaque pixels, got alpha %d at %d", img.Pixels.Pix[i], i)
				}
			}
		})
	}
}

func TestDecodeRejectsNonImages(t *testing.T) {
	_, err := Decode("notes.txt", []byte("not an image at all"))
	if err == nil {
		t.Fatal("Expected error for non-image data")
	}
	if !errors.Is(err, image.ErrFormat) {
		t.Errorf("Expected image.ErrFormat, got %v", err)
	}
}

func TestToRGB(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 0})

	dst := ToRGB(src)
	if dst.Rect.Min != (image.Point{}) {
		t.Errorf("Expected zero origin, got %v", dst.Rect.Min)
	}
	if got := dst.NRGBAAt(0, 0); got.A != 0xff || got.R != 10 {
		t.Errorf("Expected opaque copy of source pixel, got %+v", got)
	}
	if src.NRGBAAt(5, 5).A != 0 {
		t.Error("Expected source to be left unchanged")
	}
}

func named(names ...string) []Image {
	out := make([]Image, len(names))
	for i, n := range names {
		out[i] = Image{Name: n, Index: i}
	}
	return out
}

func namesOf(images []Image) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.Name
	}
	return out
}

func TestSetReplaceReindexes(t *testing.T) {
	s := New(named("a.png", "b.png"))
	s.Replace(Reorder(s.Images(), []string{"b.png", "a.png"}))

	for i := 0; i < s.Len(); i++ {
		img, err := s.At(i)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", i, err)
		}
		if img.Index != i {
			t.Errorf("Expected index %d, got %d", i, img.Index)
		}
	}
	if got := s.Names(); got[0] != "b.png" || got[1] != "a.png" {
		t.Errorf("Expected [b.png a.png], got %v", got)
	}
}

func TestSetAtOutOfRange(t *testing.T) {
	s := New(named("a.png"))
	for _, idx := range []int{-1, 1, 5} {
		if _, err := s.At(idx); err == nil {
			t.Errorf("Expected error for index %d", idx)
		}
	}

	var empty *Set
	if empty.Len() != 0 {
		t.Errorf("Expected nil set to be empty, got %d", empty.Len())
	}
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{"full order", []string{"c", "a", "b"}, []string{"c", "a", "b"}},
		{"unknown names ignored", []string{"x", "b"}, []string{"b", "a", "c"}},
		{"missing names appended", []string{"c"}, []string{"c", "a", "b"}},
		{"empty keeps order", nil, []string{"a", "b", "c"}},
		{"duplicates match once", []string{"a", "a"}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := namesOf(Reorder(named("a", "b", "c"), tt.names))
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}
