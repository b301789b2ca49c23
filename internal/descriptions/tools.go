package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Translation Tools
	PDFTranslateFileDescription = `Translate a PDF document while preserving its original layout, images, and formatting.

**When to use:** Need a translated copy of a PDF where each paragraph appears in the same position as in the original.

**Why it's useful:** Keeps figures, tables, and page structure intact instead of producing a flat text dump; formula-like fragments are detected and left untranslated.

**Examples:**
• Research papers: "Translate paper.pdf from English to Western Persian keeping the layout"
• Reports: "Produce an Arabic version of quarterly-report.pdf in /translated/"
• Manuals: "Translate user-manual.pdf to Hebrew with the Vazirmatn font"

**Common workflows:**
1. Direct Translation: Validate file → Translate → Review output document
2. Custom Language Pair: Override source/target languages → Translate → Verify script rendering
3. Custom Fonts: Supply a font covering the target script → Translate → Check glyph coverage

**Best practices:** This call blocks until the whole document is done; for large documents prefer pdf_translate_submit and poll with pdf_job_status. Mathematical notation is preserved verbatim.`

	PDFTranslateSubmitDescription = `Submit a PDF translation as a background job and return immediately with a job ID.

**When to use:** Translating large documents, or when the caller cannot hold a request open for the full run.

**Why it's useful:** Translation calls the remote backend once per paragraph, which can take minutes for long documents; the job API lets clients poll instead of blocking.

**Examples:**
• Long documents: "Submit book-chapter.pdf for translation and give me the job ID"
• Batch work: "Queue all PDFs in /inbox/ for translation, collect job IDs"
• Unattended runs: "Start translating archive.pdf, I'll check back later"

**Common workflows:**
1. Submit & Poll: pdf_translate_submit → pdf_job_status until done → use output path
2. Batch Queue: Submit several files → Poll each job → Report failures
3. Fire & Forget: Submit job → Check status at end of session

**Best practices:** Jobs run one at a time in submission order; keep the job ID from the response, it is the only handle to the result.`

	PDFJobStatusDescription = `Check the status and result of a previously submitted translation job.

**When to use:** After pdf_translate_submit, to find out whether the job is pending, running, done, or failed.

**Why it's useful:** Reports which pipeline stage a failed job died in, and returns the output path plus block statistics once the job completes.

**Examples:**
• Polling: "Check job 3f2a... and tell me if the translation finished"
• Diagnostics: "Why did job 9c41... fail?"
• Result retrieval: "Get the output path of the completed job"

**Common workflows:**
1. Polling Loop: Submit → Poll status → Done: read output path / Failed: inspect stage and error
2. Error Triage: Failed job → Check failed_stage → Fix input or backend → Resubmit
3. Audit: List of job IDs → Query each → Summarize outcomes

**Best practices:** A failed job reports the stage (extracting, translating, reconstructing) together with the underlying error; no partial output file is left behind.`

	PDFExtractBlocksDescription = `Extract positioned text blocks with bounding boxes, font information, and formula detection.

**When to use:** Need to see what the translator sees: where each paragraph sits on the page, its dominant font, and whether it is classified as mathematical notation.

**Why it's useful:** Lets you inspect and debug layout extraction before committing to a full translation run, and serves as a layout-aware extraction tool in its own right.

**Examples:**
• Pre-translation check: "Show me the text blocks of paper.pdf so I can see what will be translated"
• Formula audit: "Which blocks of equations.pdf are detected as formulas?"
• Layout analysis: "Get bounding boxes of all paragraphs in form.pdf"

**Common workflows:**
1. Dry Run: Extract blocks → Review formula flags → Translate if the split looks right
2. Layout Debugging: Extract blocks → Compare coordinates to the rendered page → Adjust expectations
3. Data Mining: Extract blocks → Filter by position or font size → Feed downstream

**Best practices:** Coordinates use the PDF coordinate system with the origin at the bottom-left of the page; font size and name are omitted when the block carries no usable font metadata.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before attempting to translate or extract from any PDF file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Prevents processing errors, identifies corrupted files early, and ensures compatibility with the translation pipeline.

**Examples:**
• Batch processing safety: "Validate all PDFs in /inbox/ before queuing translations"
• Upload verification: "Check user-uploaded contract.pdf is valid before translating"
• Quality control: "Verify translated-report.pdf is readable before sending to client"

**Common workflows:**
1. Automated Processing: Validate → Translate if valid → Handle errors gracefully
2. File Quality Check: Validate → Report issues → Fix or reject bad files
3. Pre-processing Pipeline: Validate → Route to translation or rejection

**Best practices:** Always run this first in automated workflows, essential for production systems handling unknown PDFs.`

	// Utility Tools
	PDFServerInfoDescription = `Get real-time server status, configured language pair, and available tools.

**When to use:** Starting work with the translation server, troubleshooting issues, or checking the active configuration.

**Why it's useful:** Shows the default source and target languages, the configured font and backend, and the current job queue state for informed decision-making.

**Examples:**
• System check: "Verify the server is ready and the backend is configured before batch translation"
• Configuration check: "What language pair and font is the server using by default?"
• Capability discovery: "See all available tools and their descriptions for new projects"

**Common workflows:**
1. Session Startup: Check server info → Verify configuration → Plan translation approach
2. Debugging: Review server status → Check backend URL and font path → Verify tool availability
3. Planning: Review available tools → Choose blocking or job-based translation → Execute workflow

**Best practices:** Run at start of sessions; the reported defaults apply whenever a tool call omits the corresponding argument.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_translate_file":   PDFTranslateFileDescription,
	"pdf_translate_submit": PDFTranslateSubmitDescription,
	"pdf_job_status":       PDFJobStatusDescription,
	"pdf_extract_blocks":   PDFExtractBlocksDescription,
	"pdf_validate_file":    PDFValidateFileDescription,
	"pdf_server_info":      PDFServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
