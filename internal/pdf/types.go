package pdf

// BoundingBox describes a rectangle in page coordinate space. PDF pages use a
// bottom-left origin, so Y0 is the lower edge and Y1 the upper edge.
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// IsDegenerate reports whether the box has no drawable area.
func (b BoundingBox) IsDegenerate() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// TextBlock is the unit of work throughout the translation pipeline. Blocks
// are created by layout extraction; the classifier and dispatcher derive new
// blocks from them rather than mutating shared state.
type TextBlock struct {
	// PageIndex is the zero-based page ordinal within the source document.
	PageIndex int `json:"page_index"`

	// Box is the block's bounding box in page coordinates.
	Box BoundingBox `json:"bounding_box"`

	// Text is the concatenation of all character runs in emission order.
	Text string `json:"text"`

	// FontSize is the run-weighted average size; 0 means no sized runs
	// contributed and the renderer falls back to a default.
	FontSize float64 `json:"font_size,omitempty"`

	// FontName is the run-weighted dominant font family; empty when no run
	// carried font information.
	FontName string `json:"font_name,omitempty"`

	// IsFormulaLike marks blocks classified as mathematical notation, which
	// are excluded from translation.
	IsFormulaLike bool `json:"is_formula_like"`
}

// PageDimensions describes the size of a single page in points.
type PageDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Request Types

// ExtractBlocksRequest represents a request to extract layout text blocks
// from a PDF file.
type ExtractBlocksRequest struct {
	Path string `json:"path"`
}

// ValidateFileRequest represents a request to validate a PDF file.
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// RebuildRequest represents a request to reconstruct a translated document.
type RebuildRequest struct {
	SourcePath string      `json:"source_path"`
	OutputPath string      `json:"output_path"`
	Blocks     []TextBlock `json:"blocks"`

	// FontPath points at a TTF/OTF file with glyph coverage for the target
	// script. Validated before any page is written.
	FontPath string `json:"font_path"`

	// RightToLeft selects right-to-left placement and right alignment for
	// the overlaid text.
	RightToLeft bool `json:"right_to_left"`
}

// Response Types

// ExtractBlocksResult represents the result of layout extraction.
type ExtractBlocksResult struct {
	Path   string      `json:"path"`
	Pages  int         `json:"pages"`
	Blocks []TextBlock `json:"blocks"`
}

// ValidateFileResult represents the result of a PDF validation operation.
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// RebuildResult represents the result of document reconstruction.
type RebuildResult struct {
	OutputPath    string `json:"output_path"`
	Pages         int    `json:"pages"`
	BlocksDrawn   int    `json:"blocks_drawn"`
	BlocksSkipped int    `json:"blocks_skipped"`
}
