package images

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/cropper/internal/imageset"
)

// DefaultMaxBytes caps a single image read from disk or the network.
const DefaultMaxBytes = 10 * 1024 * 1024

// Loader reads images from local paths or http(s) URLs
type Loader struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewLoader creates a new image loader
func NewLoader(maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Loader{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// LoadAll loads every source in order. The first failure aborts the load.
func (l *Loader) LoadAll(sources []string) ([]imageset.Image, error) {
	images := make([]imageset.Image, 0, len(sources))
	for _, source := range sources {
		img, err := l.Load(source)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	slog.Info("Images loaded", "count", len(images))
	return images, nil
}

// Load reads and decodes one image.
func (l *Loader) Load(source string) (imageset.Image, error) {
	var (
		name string
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		name = filenameFromURL(source)
		data, err = l.download(source)
	} else {
		name = filepath.Base(source)
		data, err = l.readFile(source)
	}
	if err != nil {
		return imageset.Image{}, err
	}

	img, err := imageset.Decode(name, data)
	if err != nil {
		return imageset.Image{}, err
	}
	slog.Debug("Image loaded", "source", source, "name", name, "width", img.Width(), "height", img.Height())
	return img, nil
}

func (l *Loader) readFile(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return l.readLimited(f, p)
}

// download fetches an image over HTTP
func (l *Loader) download(imageURL string) ([]byte, error) {
	resp, err := l.HTTPClient.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	return l.readLimited(resp.Body, imageURL)
}

func (l *Loader) readLimited(r io.Reader, source string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > l.MaxBytes {
		return nil, fmt.Errorf("%s: image too large (max %d bytes)", source, l.MaxBytes)
	}
	return data, nil
}

// filenameFromURL uses the last path segment, falling back to image.jpg.
func filenameFromURL(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "image.jpg"
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "image.jpg"
	}
	return name
}
