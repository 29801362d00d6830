package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FilenameFor builds the export name, without extension, for the image at
// index. Any mode other than original or original_cropped is treated as custom.
func FilenameFor(originalName string, index int, mode TemplateMode, customBase string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	if base == "" {
		// dotfiles such as ".png" keep their full name
		base = originalName
	}

	switch mode {
	case TemplateOriginal:
		return base
	case TemplateOriginalCropped:
		return base + CroppedSuffix
	}
	if customBase != "" {
		return customBase
	}
	return fmt.Sprintf("custom_%d", index+1)
}
