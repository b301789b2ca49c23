package pdf

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// DefaultOverlayFontSize is used for blocks whose extraction recorded no
// font size.
const DefaultOverlayFontSize = 10.0

// Rebuilder reconstructs a translated document: the source pages are copied
// wholesale so images and vector graphics survive untouched, then each text
// block is masked with an opaque white rectangle and its (possibly
// translated) text is stamped back inside the same box.
type Rebuilder struct {
	fonts *Fonts
	conf  *model.Configuration
}

// NewRebuilder creates a new document rebuilder.
func NewRebuilder() *Rebuilder {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Rebuilder{
		fonts: NewFonts(),
		conf:  conf,
	}
}

// Rebuild produces the output document described by req. The output has the
// same page count and page dimensions as the source by construction. Any
// failure while writing removes the partial output file; a run either yields
// a complete artifact or none at all.
func (rb *Rebuilder) Rebuild(req RebuildRequest) (*RebuildResult, error) {
	// Font problems are configuration errors; fail before touching pages.
	fontName, err := rb.fonts.Install(req.FontPath)
	if err != nil {
		return nil, err
	}

	dims, err := api.PageDimsFile(req.SourcePath)
	if err != nil {
		return nil, &DocumentReadError{Path: req.SourcePath, Err: err}
	}

	if err := copyFile(req.SourcePath, req.OutputPath); err != nil {
		return nil, &DocumentWriteError{Path: req.OutputPath, Err: err}
	}

	result := &RebuildResult{
		OutputPath: req.OutputPath,
		Pages:      len(dims),
	}

	for _, pageIndex := range pagesWithBlocks(req.Blocks) {
		if pageIndex < 0 || pageIndex >= len(dims) {
			rb.discard(req.OutputPath)
			return nil, &DocumentWriteError{
				Path: req.OutputPath,
				Err:  fmt.Errorf("block references page index %d of a %d-page document", pageIndex, len(dims)),
			}
		}

		pageDim := dims[pageIndex]
		for _, block := range sortedPageBlocks(req.Blocks, pageIndex) {
			if block.Box.IsDegenerate() || strings.TrimSpace(block.Text) == "" {
				result.BlocksSkipped++
				continue
			}

			if err := rb.maskBlock(req.OutputPath, pageIndex, block); err != nil {
				rb.discard(req.OutputPath)
				return nil, &DocumentWriteError{Path: req.OutputPath, Err: err}
			}
			if err := rb.stampBlock(req.OutputPath, pageIndex, block, fontName, pageDim.Width, req.RightToLeft); err != nil {
				rb.discard(req.OutputPath)
				return nil, &DocumentWriteError{Path: req.OutputPath, Err: err}
			}
			result.BlocksDrawn++
		}
	}

	if err := api.ValidateFile(req.OutputPath, rb.conf); err != nil {
		rb.discard(req.OutputPath)
		return nil, &DocumentWriteError{Path: req.OutputPath, Err: fmt.Errorf("output failed validation: %w", err)}
	}

	return result, nil
}

// maskBlock paints an opaque white run of spaces, with a white background
// box, over the block's bounding box to suppress the original text
// underneath. Watermarks are built through api.TextWatermark so the stamp
// machinery is fully initialized.
func (rb *Rebuilder) maskBlock(path string, pageIndex int, block TextBlock) error {
	points := int(block.Box.Height())
	if points < 1 {
		points = int(DefaultOverlayFontSize)
	}

	// Helvetica's space advance is just over a quarter em, so this run of
	// spaces is at least as wide as the box.
	spaces := int(math.Ceil(block.Box.Width() / (0.25 * float64(points))))
	if spaces < 1 {
		spaces = 1
	}

	desc := fmt.Sprintf(
		"fontname:Helvetica, points:%d, scalefactor:1 abs, position:bl, offset:%.2f %.2f, rotation:0, opacity:1, fillcolor:#ffffff, backgroundcolor:#ffffff, margins:1",
		points, block.Box.X0, block.Box.Y0)

	wm, err := api.TextWatermark(strings.Repeat(" ", spaces), desc, true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("page %d: mask rectangle: %w", pageIndex+1, err)
	}

	pages := []string{strconv.Itoa(pageIndex + 1)}
	if err := api.AddWatermarksFile(path, "", pages, wm, rb.conf); err != nil {
		return fmt.Errorf("page %d: mask rectangle: %w", pageIndex+1, err)
	}
	return nil
}

// stampBlock draws the block's text inside its bounding box using the
// installed target-script font. Right-to-left output is anchored at the
// box's right edge and rendered right to left.
func (rb *Rebuilder) stampBlock(path string, pageIndex int, block TextBlock, fontName string, pageWidth float64, rightToLeft bool) error {
	points := int(block.FontSize)
	if points < 1 {
		points = int(DefaultOverlayFontSize)
	}

	var desc string
	if rightToLeft {
		desc = fmt.Sprintf(
			"fontname:%s, points:%d, scalefactor:1 abs, position:br, offset:%.2f %.2f, rotation:0, opacity:1, fillcolor:#000000, rtl:on, aligntext:right",
			fontName, points, -(pageWidth - block.Box.X1), block.Box.Y0)
	} else {
		desc = fmt.Sprintf(
			"fontname:%s, points:%d, scalefactor:1 abs, position:bl, offset:%.2f %.2f, rotation:0, opacity:1, fillcolor:#000000, aligntext:left",
			fontName, points, block.Box.X0, block.Box.Y0)
	}

	wm, err := api.TextWatermark(overlayText(block.Text), desc, true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("page %d: text overlay: %w", pageIndex+1, err)
	}

	pages := []string{strconv.Itoa(pageIndex + 1)}
	if err := api.AddWatermarksFile(path, "", pages, wm, rb.conf); err != nil {
		return fmt.Errorf("page %d: text overlay: %w", pageIndex+1, err)
	}
	return nil
}

// discard removes a partial output file. Failure to remove is ignored; the
// caller is already returning the underlying write error.
func (rb *Rebuilder) discard(path string) {
	_ = os.Remove(path)
}

// pagesWithBlocks returns the sorted distinct page indexes referenced by the
// block sequence. Blocks carry no required cross-page ordering, so rendering
// walks pages in ascending order for determinism.
func pagesWithBlocks(blocks []TextBlock) []int {
	seen := map[int]bool{}
	var pages []int
	for _, b := range blocks {
		if !seen[b.PageIndex] {
			seen[b.PageIndex] = true
			pages = append(pages, b.PageIndex)
		}
	}
	sort.Ints(pages)
	return pages
}

// sortedPageBlocks returns the blocks belonging to one page, ordered
// top-to-bottom then right-to-left so overlapping boxes stack
// deterministically.
func sortedPageBlocks(blocks []TextBlock, pageIndex int) []TextBlock {
	var page []TextBlock
	for _, b := range blocks {
		if b.PageIndex == pageIndex {
			page = append(page, b)
		}
	}
	sort.SliceStable(page, func(i, j int) bool {
		if page[i].Box.Y0 != page[j].Box.Y0 {
			// Bottom-left origin: larger Y is higher on the page.
			return page[i].Box.Y0 > page[j].Box.Y0
		}
		return page[i].Box.X0 > page[j].Box.X0
	})
	return page
}

// overlayText normalizes block text for stamping: carriage returns dropped,
// surrounding whitespace trimmed. Newlines are kept so multi-line blocks
// render as multiple lines.
func overlayText(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	return strings.TrimSpace(text)
}

// copyFile copies src to dst, creating the destination directory if needed.
func copyFile(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
