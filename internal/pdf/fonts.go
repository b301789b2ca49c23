package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/font/sfnt"
)

// Fonts manages the target-script font resource used for overlaying
// translated text. The resource is validated up front so a missing or broken
// font fails the run before any page is written.
type Fonts struct{}

// NewFonts creates a new font manager.
func NewFonts() *Fonts {
	return &Fonts{}
}

// Validate checks that the font resource exists and parses as a
// TrueType/OpenType font.
func (f *Fonts) Validate(fontPath string) error {
	if fontPath == "" {
		return &FontResourceError{Path: fontPath, Err: fmt.Errorf("font path cannot be empty")}
	}

	info, err := os.Stat(fontPath)
	if err != nil {
		return &FontResourceError{Path: fontPath, Err: err}
	}
	if info.IsDir() {
		return &FontResourceError{Path: fontPath, Err: fmt.Errorf("path is a directory, not a font file")}
	}
	if info.Size() == 0 {
		return &FontResourceError{Path: fontPath, Err: fmt.Errorf("font file is empty")}
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return &FontResourceError{Path: fontPath, Err: err}
	}
	if _, err := sfnt.Parse(data); err != nil {
		return &FontResourceError{Path: fontPath, Err: fmt.Errorf("not a usable TrueType/OpenType font: %w", err)}
	}

	return nil
}

// Install validates the font resource and registers it as a pdfcpu user font
// so text stamps can reference it by name. It returns the font name to use
// when stamping.
func (f *Fonts) Install(fontPath string) (string, error) {
	if err := f.Validate(fontPath); err != nil {
		return "", err
	}

	if err := api.InstallFonts([]string{fontPath}); err != nil {
		return "", &FontResourceError{Path: fontPath, Err: fmt.Errorf("install failed: %w", err)}
	}

	return FontName(fontPath), nil
}

// FontName returns the name a font file is registered under: the base file
// name without its extension.
func FontName(fontPath string) string {
	base := filepath.Base(fontPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
