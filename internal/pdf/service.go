package pdf

// Service handles document-level operations by orchestrating the layout
// extractor, validator, font manager, and rebuilder. The translation pipeline
// and the MCP server both talk to documents exclusively through it.
type Service struct {
	maxFileSize int64
	layout      *Layout
	validator   *Validator
	fonts       *Fonts
	rebuilder   *Rebuilder
}

// NewService creates a new document service with all components.
func NewService(maxFileSize int64) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		layout:      NewLayout(maxFileSize),
		validator:   NewValidator(maxFileSize),
		fonts:       NewFonts(),
		rebuilder:   NewRebuilder(),
	}
}

// ExtractBlocks extracts positioned text blocks from a source document.
func (s *Service) ExtractBlocks(req ExtractBlocksRequest) (*ExtractBlocksResult, error) {
	return s.layout.ExtractBlocks(req)
}

// ValidateFile performs validation on a PDF file.
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	return s.validator.ValidateFile(req)
}

// IsValidPDF performs a quick validation check on a file.
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// ValidateFontResource checks the target-script font up front.
func (s *Service) ValidateFontResource(fontPath string) error {
	return s.fonts.Validate(fontPath)
}

// Rebuild reconstructs a translated document from the source document and the
// final block sequence.
func (s *Service) Rebuild(req RebuildRequest) (*RebuildResult, error) {
	return s.rebuilder.Rebuild(req)
}

// PageCount returns the number of pages in a document.
func (s *Service) PageCount(path string) (int, error) {
	return s.layout.PageCount(path)
}

// GetMaxFileSize returns the maximum file size limit.
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
