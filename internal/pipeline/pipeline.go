// Package pipeline sequences the four translation stages — layout
// extraction, formula classification, translation dispatch, and document
// reconstruction — and defines the failure contract for a whole run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/a3tai/mcp-pdf-translator/internal/formula"
	"github.com/a3tai/mcp-pdf-translator/internal/pdf"
	"github.com/a3tai/mcp-pdf-translator/internal/translate"
)

// directionSampleLimit caps how much translated text is inspected when the
// target language name alone does not settle the writing direction.
const directionSampleLimit = 512

// Request carries the full configuration of one run, threaded in explicitly
// at invocation time. The backend handle is bound at pipeline construction.
type Request struct {
	InputPath      string `json:"input_path"`
	OutputPath     string `json:"output_path"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	FontPath       string `json:"font_path"`
}

// Result summarizes a completed run for job bookkeeping.
type Result struct {
	OutputPath      string        `json:"output_path"`
	Pages           int           `json:"pages"`
	BlockCount      int           `json:"block_count"`
	FormulaCount    int           `json:"formula_count"`
	TranslatedCount int           `json:"translated_count"`
	Duration        time.Duration `json:"duration"`
}

// Pipeline runs translation jobs. One run executes on one goroutine; stages
// never overlap and no state is shared between runs beyond the backend
// connection, which must tolerate sequential reuse.
type Pipeline struct {
	docs       *pdf.Service
	dispatcher *translate.Dispatcher
}

// New creates a pipeline over a document service and a translation backend.
func New(docs *pdf.Service, backend translate.Backend) *Pipeline {
	return &Pipeline{
		docs:       docs,
		dispatcher: translate.NewDispatcher(backend),
	}
}

// Run executes extraction, classification, translation, and reconstruction
// in order, propagating the first error tagged with its stage. There is no
// checkpointing: a failure at any stage discards all work for the run, and
// the destination artifact exists only after every stage has completed.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, failed(StageExtracting, err)
	}

	start := time.Now()

	extracted, err := p.docs.ExtractBlocks(pdf.ExtractBlocksRequest{Path: req.InputPath})
	if err != nil {
		return nil, failed(StageExtracting, err)
	}
	log.Printf("extracted %d blocks from %d pages of %s", len(extracted.Blocks), extracted.Pages, req.InputPath)

	marked := formula.Mark(extracted.Blocks)
	formulaCount := 0
	for _, block := range marked {
		if block.IsFormulaLike {
			formulaCount++
		}
	}

	translated, stats, err := p.dispatcher.Dispatch(ctx, marked, req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		return nil, failed(StageTranslating, err)
	}
	log.Printf("translated %d blocks %s -> %s (formula: %d, blank: %d, kept: %d)",
		stats.Translated, req.SourceLanguage, req.TargetLanguage,
		stats.SkippedFormula, stats.SkippedEmpty, stats.KeptOriginal)

	rightToLeft := pdf.TargetDirection(req.TargetLanguage, directionSample(translated)) == pdf.DirectionRTL

	rebuilt, err := p.docs.Rebuild(pdf.RebuildRequest{
		SourcePath:  req.InputPath,
		OutputPath:  req.OutputPath,
		Blocks:      translated,
		FontPath:    req.FontPath,
		RightToLeft: rightToLeft,
	})
	if err != nil {
		return nil, failed(StageReconstructing, err)
	}
	log.Printf("wrote %s (%d pages, %d blocks drawn)", rebuilt.OutputPath, rebuilt.Pages, rebuilt.BlocksDrawn)

	return &Result{
		OutputPath:      rebuilt.OutputPath,
		Pages:           rebuilt.Pages,
		BlockCount:      len(translated),
		FormulaCount:    formulaCount,
		TranslatedCount: stats.Translated,
		Duration:        time.Since(start),
	}, nil
}

// validateRequest rejects runs that are missing required configuration.
func validateRequest(req Request) error {
	switch {
	case req.InputPath == "":
		return fmt.Errorf("input path cannot be empty")
	case req.OutputPath == "":
		return fmt.Errorf("output path cannot be empty")
	case req.SourceLanguage == "":
		return fmt.Errorf("source language cannot be empty")
	case req.TargetLanguage == "":
		return fmt.Errorf("target language cannot be empty")
	case req.FontPath == "":
		return fmt.Errorf("font path cannot be empty")
	}
	return nil
}

// directionSample gathers translated prose (formula blocks excluded) for
// script-direction detection.
func directionSample(blocks []pdf.TextBlock) string {
	sample := make([]byte, 0, directionSampleLimit)
	for _, block := range blocks {
		if block.IsFormulaLike {
			continue
		}
		sample = append(sample, block.Text...)
		if len(sample) >= directionSampleLimit {
			break
		}
	}
	return string(sample)
}
