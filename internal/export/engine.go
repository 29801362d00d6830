package export

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/lehigh-university-libraries/cropper/internal/imageset"
	"golang.org/x/sync/errgroup"
)

// ArchiveName is the filename offered for batch downloads.
const ArchiveName = "cropped_images.zip"

// Images is the ordered source of originals.
type Images interface {
	Len() int
	At(index int) (imageset.Image, error)
}

// Crops looks up the committed crop for an index.
type Crops interface {
	Get(index int) (*image.NRGBA, bool)
}

// Settings controls the output format and naming of exported files.
type Settings struct {
	Format     Format
	Template   TemplateMode
	CustomBase string
}

// File is one encoded image ready for download.
type File struct {
	Index    int
	Name     string
	Ext      string
	MIMEType string
	Data     []byte
	Cropped  bool
}

// Failure records an image that could not be exported.
type Failure struct {
	Index int
	Name  string
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("image %d (%s): %v", f.Index, f.Name, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Archive is the result of a batch export. Entries are ordered by index;
// failed images are listed in Failures and left out of the archive.
type Archive struct {
	Name     string
	Data     []byte
	Entries  []string
	Failures []Failure
}

// Engine exports single images and batches.
type Engine struct {
	encoder     Encoder
	concurrency int
}

// NewEngine returns an Engine that encodes at most concurrency images at a
// time during batch export. Zero means one per CPU.
func NewEngine(encoder Encoder, concurrency int) *Engine {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Engine{encoder: encoder, concurrency: concurrency}
}

// ExportSingle encodes the crop for index, or the original when there is no crop.
func (e *Engine) ExportSingle(images Images, crops Crops, index int, settings Settings) (*File, error) {
	format, err := ParseFormat(string(settings.Format))
	if err != nil {
		return nil, err
	}
	settings.Format = format

	original, err := images.At(index)
	if err != nil {
		return nil, err
	}

	if original.Pixels == nil {
		return nil, fmt.Errorf("image %d (%s) has no pixel data", index, original.Name)
	}

	var img image.Image = original.Pixels
	cropped := false
	if crops != nil {
		if c, ok := crops.Get(index); ok {
			img, cropped = c, true
		}
	}

	data, ext, err := e.encoder.Encode(img, settings.Format)
	if err != nil {
		return nil, err
	}

	return &File{
		Index:    index,
		Name:     FilenameFor(original.Name, index, settings.Template, settings.CustomBase) + "." + ext,
		Ext:      ext,
		MIMEType: MIMEType(ext),
		Data:     data,
		Cropped:  cropped,
	}, nil
}

// ExportAll encodes every image and packs the results into a deflate ZIP.
// An image that fails to encode is reported in the archive's Failures and
// does not stop the others.
func (e *Engine) ExportAll(images Images, crops Crops, settings Settings) (*Archive, error) {
	format, err := ParseFormat(string(settings.Format))
	if err != nil {
		return nil, err
	}
	settings.Format = format

	n := images.Len()
	files := make([]*File, n)
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("panic while encoding: %v", r)
				}
			}()
			files[i], errs[i] = e.ExportSingle(images, crops, i, settings)
			return nil
		})
	}
	_ = g.Wait()

	archive := &Archive{Name: ArchiveName}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]int, n)
	now := time.Now()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			name := ""
			if img, err := images.At(i); err == nil {
				name = img.Name
			}
			failure := Failure{Index: i, Name: name, Err: errs[i]}
			slog.Warn("Skipping image in batch export", "index", i, "name", name, "err", errs[i])
			archive.Failures = append(archive.Failures, failure)
			continue
		}

		f := files[i]
		if seen[f.Name]++; seen[f.Name] > 1 {
			slog.Warn("Duplicate entry name in archive", "name", f.Name, "index", i)
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", f.Name, err)
		}
		archive.Entries = append(archive.Entries, f.Name)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	archive.Data = buf.Bytes()

	slog.Info("Batch export finished", "entries", len(archive.Entries), "failed", len(archive.Failures), "bytes", len(archive.Data))
	return archive, nil
}
