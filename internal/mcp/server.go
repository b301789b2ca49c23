package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/a3tai/mcp-pdf-translator/internal/config"
	"github.com/a3tai/mcp-pdf-translator/internal/descriptions"
	"github.com/a3tai/mcp-pdf-translator/internal/formula"
	"github.com/a3tai/mcp-pdf-translator/internal/jobs"
	"github.com/a3tai/mcp-pdf-translator/internal/pdf"
	"github.com/a3tai/mcp-pdf-translator/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	pipeline   *pipeline.Pipeline
	jobStore   *jobs.Store
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, pipe *pipeline.Pipeline, jobStore *jobs.Store) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if pipe == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if jobStore == nil {
		return nil, fmt.Errorf("jobStore cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		pipeline:   pipe,
		jobStore:   jobStore,
		mcpServer:  mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register PDF translate file tool
	pdfTranslateFileTool := mcp.NewTool(
		"pdf_translate_file",
		mcp.WithDescription("Translate a PDF file preserving its layout, blocking until done"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file to translate"),
		),
		mcp.WithString("output_path",
			mcp.Description("Destination path for the translated PDF (defaults to the output directory)"),
		),
		mcp.WithString("source_language",
			mcp.Description("Source language name (uses the configured default if empty)"),
		),
		mcp.WithString("target_language",
			mcp.Description("Target language name (uses the configured default if empty)"),
		),
		mcp.WithString("font_path",
			mcp.Description("Font file for the target script (uses the configured default if empty)"),
		),
	)
	s.mcpServer.AddTool(pdfTranslateFileTool, s.handlePDFTranslateFile)

	// Register PDF translate submit tool
	pdfTranslateSubmitTool := mcp.NewTool(
		"pdf_translate_submit",
		mcp.WithDescription("Submit a PDF translation as a background job and return a job ID"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file to translate"),
		),
		mcp.WithString("output_path",
			mcp.Description("Destination path for the translated PDF (defaults to the output directory)"),
		),
		mcp.WithString("source_language",
			mcp.Description("Source language name (uses the configured default if empty)"),
		),
		mcp.WithString("target_language",
			mcp.Description("Target language name (uses the configured default if empty)"),
		),
		mcp.WithString("font_path",
			mcp.Description("Font file for the target script (uses the configured default if empty)"),
		),
	)
	s.mcpServer.AddTool(pdfTranslateSubmitTool, s.handlePDFTranslateSubmit)

	// Register PDF job status tool
	pdfJobStatusTool := mcp.NewTool(
		"pdf_job_status",
		mcp.WithDescription("Check the status and result of a submitted translation job"),
		mcp.WithString("job_id",
			mcp.Required(),
			mcp.Description("Job ID returned by pdf_translate_submit"),
		),
	)
	s.mcpServer.AddTool(pdfJobStatusTool, s.handlePDFJobStatus)

	// Register PDF extract blocks tool
	pdfExtractBlocksTool := mcp.NewTool(
		"pdf_extract_blocks",
		mcp.WithDescription("Extract positioned text blocks with bounding boxes, fonts, and formula flags"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfExtractBlocksTool, s.handlePDFExtractBlocks)

	// Register PDF validate file tool
	pdfValidateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfValidateFileTool, s.handlePDFValidateFile)

	// Register PDF server info tool
	pdfServerInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription("Get server information, configured language pair, available tools, and job queue state"),
	)
	s.mcpServer.AddTool(pdfServerInfoTool, s.handlePDFServerInfo)
}

// translationRequest builds a pipeline request from tool arguments, filling
// gaps from the server configuration.
func (s *Server) translationRequest(path string, args map[string]any) pipeline.Request {
	req := pipeline.Request{
		InputPath:      path,
		SourceLanguage: s.config.SourceLanguage,
		TargetLanguage: s.config.TargetLanguage,
		FontPath:       s.config.FontPath,
	}

	if out, ok := args["output_path"].(string); ok && out != "" {
		req.OutputPath = out
	} else {
		req.OutputPath = s.defaultOutputPath(path)
	}
	if src, ok := args["source_language"].(string); ok && src != "" {
		req.SourceLanguage = src
	}
	if tgt, ok := args["target_language"].(string); ok && tgt != "" {
		req.TargetLanguage = tgt
	}
	if font, ok := args["font_path"].(string); ok && font != "" {
		req.FontPath = font
	}

	return req
}

// defaultOutputPath places the translated copy in the configured output
// directory under "<name>_translated.pdf".
func (s *Server) defaultOutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.config.OutputDirectory, stem+"_translated.pdf")
}

// Handler functions
func (s *Server) handlePDFTranslateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := s.translationRequest(path, request.GetArguments())
	result, err := s.pipeline.Run(ctx, req)
	if err != nil {
		var stageErr *pipeline.Error
		if errors.As(err, &stageErr) {
			return mcp.NewToolResultError(fmt.Sprintf("translation failed during %s: %v", stageErr.Stage, stageErr.Err)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatTranslationResult(req, result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFTranslateSubmit(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := s.translationRequest(path, request.GetArguments())

	// Reject obviously broken inputs before queueing; the pipeline validates
	// again when the job runs.
	if !s.pdfService.IsValidPDF(req.InputPath) {
		return mcp.NewToolResultError(fmt.Sprintf("not a readable PDF file: %s", req.InputPath)), nil
	}

	job := s.jobStore.Create(req)

	responseText := "Translation job submitted\n"
	responseText += fmt.Sprintf("Job ID: %s\n", job.ID)
	responseText += fmt.Sprintf("Input: %s\n", req.InputPath)
	responseText += fmt.Sprintf("Output: %s\n", req.OutputPath)
	responseText += fmt.Sprintf("Languages: %s -> %s\n", req.SourceLanguage, req.TargetLanguage)
	responseText += "\nUse pdf_job_status with this job ID to check progress."

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFJobStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, err := request.RequireString("job_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	job, ok := s.jobStore.Get(jobID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no such job: %s", jobID)), nil
	}

	responseText := s.formatJobStatus(job)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFExtractBlocks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.ExtractBlocksRequest{Path: path}
	result, err := s.pdfService.ExtractBlocks(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result.Blocks = formula.Mark(result.Blocks)

	responseText := s.formatExtractBlocksResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.ValidateFileRequest{Path: path}
	result, err := s.pdfService.ValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	responseText := s.formatServerInfo()
	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods
func (s *Server) formatTranslationResult(req pipeline.Request, result *pipeline.Result) string {
	text := fmt.Sprintf("Successfully translated PDF: %s\n", req.InputPath)
	text += fmt.Sprintf("Output: %s\n", result.OutputPath)
	text += fmt.Sprintf("Languages: %s -> %s\n", req.SourceLanguage, req.TargetLanguage)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Text blocks: %d\n", result.BlockCount)
	text += fmt.Sprintf("Translated blocks: %d\n", result.TranslatedCount)
	if result.FormulaCount > 0 {
		text += fmt.Sprintf("Formula blocks kept verbatim: %d\n", result.FormulaCount)
	}
	text += fmt.Sprintf("Duration: %s\n", result.Duration.Round(timeRounding))
	return text
}

func (s *Server) formatJobStatus(job jobs.Job) string {
	text := fmt.Sprintf("Job %s\n", job.ID)
	text += fmt.Sprintf("Status: %s\n", job.Status)
	text += fmt.Sprintf("Input: %s\n", job.Request.InputPath)
	text += fmt.Sprintf("Languages: %s -> %s\n", job.Request.SourceLanguage, job.Request.TargetLanguage)
	text += fmt.Sprintf("Created: %s\n", job.CreatedAt.Format(timeFormat))
	text += fmt.Sprintf("Updated: %s\n", job.UpdatedAt.Format(timeFormat))

	switch job.Status {
	case jobs.StatusDone:
		if job.Result != nil {
			text += fmt.Sprintf("\nOutput: %s\n", job.Result.OutputPath)
			text += fmt.Sprintf("Pages: %d\n", job.Result.Pages)
			text += fmt.Sprintf("Text blocks: %d\n", job.Result.BlockCount)
			text += fmt.Sprintf("Translated blocks: %d\n", job.Result.TranslatedCount)
			if job.Result.FormulaCount > 0 {
				text += fmt.Sprintf("Formula blocks kept verbatim: %d\n", job.Result.FormulaCount)
			}
			text += fmt.Sprintf("Duration: %s\n", job.Result.Duration.Round(timeRounding))
		}
	case jobs.StatusFailed:
		if job.FailedStage != "" {
			text += fmt.Sprintf("\nFailed stage: %s\n", job.FailedStage)
		}
		if job.Error != "" {
			text += fmt.Sprintf("Error: %s\n", job.Error)
		}
	}

	return text
}

func (s *Server) formatExtractBlocksResult(result *pdf.ExtractBlocksResult) string {
	text := fmt.Sprintf("Extracted %d text block(s) from: %s\n", len(result.Blocks), result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)

	formulaCount := 0
	for _, block := range result.Blocks {
		if block.IsFormulaLike {
			formulaCount++
		}
	}
	if formulaCount > 0 {
		text += fmt.Sprintf("Formula-like blocks: %d\n", formulaCount)
	}
	text += "\nBlocks:\n"

	for i, block := range result.Blocks {
		text += fmt.Sprintf("%d. Page %d [%.1f, %.1f, %.1f, %.1f]",
			i+1, block.PageIndex+1,
			block.Box.X0, block.Box.Y0, block.Box.X1, block.Box.Y1)
		if block.FontName != "" {
			text += fmt.Sprintf(" Font: %s", block.FontName)
		}
		if block.FontSize > 0 {
			text += fmt.Sprintf(" Size: %.1f", block.FontSize)
		}
		if block.IsFormulaLike {
			text += " [formula]"
		}
		text += "\n"
		text += fmt.Sprintf("   %s\n", block.Text)
	}

	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("🌐 Language Pair: %s -> %s\n", s.config.SourceLanguage, s.config.TargetLanguage)
	text += fmt.Sprintf("🔗 Translation Backend: %s\n", s.config.BackendURL)
	text += fmt.Sprintf("🔤 Font: %s\n", s.config.FontPath)
	text += fmt.Sprintf("📁 Output Directory: %s\n", s.config.OutputDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n\n", s.config.MaxFileSize/(1024*1024))

	// Job queue state
	allJobs := s.jobStore.List()
	counts := map[jobs.Status]int{}
	for _, job := range allJobs {
		counts[job.Status]++
	}
	text += fmt.Sprintf("⚙️  Job Queue: %d total (%d pending, %d running, %d done, %d failed)\n\n",
		len(allJobs),
		counts[jobs.StatusPending], counts[jobs.StatusRunning],
		counts[jobs.StatusDone], counts[jobs.StatusFailed])

	// Available tools
	text += "🛠️  Available Tools:\n"
	for _, name := range toolOrder {
		text += fmt.Sprintf("\n• %s\n", name)
		text += fmt.Sprintf("  Description: %s\n", descriptions.GetToolDescription(name))
	}

	text += "\nTool arguments default to the configured language pair, font, and output directory when omitted."

	return text
}

// toolOrder keeps pdf_server_info output stable.
var toolOrder = []string{
	"pdf_translate_file",
	"pdf_translate_submit",
	"pdf_job_status",
	"pdf_extract_blocks",
	"pdf_validate_file",
	"pdf_server_info",
}

const (
	timeFormat   = "2006-01-02 15:04:05"
	timeRounding = 10 * time.Millisecond
)

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	} else {
		return s.runStdioMode(ctx)
	}
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting PDF translation MCP server in stdio mode")
		log.Printf("Language pair: %s -> %s", s.config.SourceLanguage, s.config.TargetLanguage)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// For now, we'll just use stdio mode since the mark3labs library
	// handles the transport differently
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
