package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-translator/internal/pdf"
	"github.com/a3tai/mcp-pdf-translator/internal/pdf/pdftest"
	"github.com/a3tai/mcp-pdf-translator/internal/translate"
)

type echoBackend struct{}

func (echoBackend) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

var _ translate.Backend = echoBackend{}

// failingBackend prefixes every reply until call number failOn, which fails
// with a remote backend error.
type failingBackend struct {
	calls  int
	failOn int
}

func (b *failingBackend) Translate(_ context.Context, text, _, _ string) (string, error) {
	b.calls++
	if b.calls == b.failOn {
		return "", &translate.BackendError{Kind: translate.FailureRemote, Err: fmt.Errorf("service unavailable")}
	}
	return "[fr] " + text, nil
}

func validTestRequest() Request {
	return Request{
		InputPath:      "/tmp/in.pdf",
		OutputPath:     "/tmp/out.pdf",
		SourceLanguage: "English",
		TargetLanguage: "Western Persian",
		FontPath:       "/tmp/font.ttf",
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		errMsg string
	}{
		{
			name:   "valid request",
			mutate: func(*Request) {},
		},
		{
			name:   "missing input path",
			mutate: func(r *Request) { r.InputPath = "" },
			errMsg: "input path",
		},
		{
			name:   "missing output path",
			mutate: func(r *Request) { r.OutputPath = "" },
			errMsg: "output path",
		},
		{
			name:   "missing source language",
			mutate: func(r *Request) { r.SourceLanguage = "" },
			errMsg: "source language",
		},
		{
			name:   "missing target language",
			mutate: func(r *Request) { r.TargetLanguage = "" },
			errMsg: "target language",
		},
		{
			name:   "missing font path",
			mutate: func(r *Request) { r.FontPath = "" },
			errMsg: "font path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validTestRequest()
			tt.mutate(&req)

			err := validateRequest(req)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPipeline_RunRejectsIncompleteRequest(t *testing.T) {
	p := New(pdf.NewService(1024*1024), echoBackend{})

	req := validTestRequest()
	req.TargetLanguage = ""

	result, err := p.Run(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, result)

	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageExtracting, stageErr.Stage)
}

func TestPipeline_RunTagsExtractionFailure(t *testing.T) {
	p := New(pdf.NewService(1024*1024), echoBackend{})

	req := validTestRequest()
	req.InputPath = "/non/existent/document.pdf"

	result, err := p.Run(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, result)

	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageExtracting, stageErr.Stage)

	var readErr *pdf.DocumentReadError
	assert.ErrorAs(t, err, &readErr, "stage error must wrap the underlying cause")
}

func TestPipeline_RunTranslatesDocument(t *testing.T) {
	fontPath := pdftest.FindFont(t)

	tempDir := t.TempDir()
	inputPath := filepath.Join(tempDir, "in.pdf")
	pdftest.WriteDocument(t, inputPath, []string{"Hello world from the first page"})

	outputPath := filepath.Join(tempDir, "out.pdf")

	p := New(pdf.NewService(1024*1024), echoBackend{})
	result, err := p.Run(context.Background(), Request{
		InputPath:      inputPath,
		OutputPath:     outputPath,
		SourceLanguage: "English",
		TargetLanguage: "French",
		FontPath:       fontPath,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, outputPath, result.OutputPath)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 1, result.BlockCount)
	assert.Equal(t, 0, result.FormulaCount)
	assert.Equal(t, 1, result.TranslatedCount)

	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("expected output document on disk: %v", err)
	}

	// Page count survives reconstruction.
	pages, err := pdf.NewService(1024 * 1024).PageCount(outputPath)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestPipeline_RunAbortsOnBackendFailure(t *testing.T) {
	tempDir := t.TempDir()
	inputPath := filepath.Join(tempDir, "in.pdf")
	pdftest.WriteDocument(t, inputPath, []string{
		"Row one has prose",
		"Row two has prose",
		"Row three has prose",
		"Row four has prose",
		"Row five has prose",
	})

	outputPath := filepath.Join(tempDir, "out.pdf")

	backend := &failingBackend{failOn: 3}
	p := New(pdf.NewService(1024*1024), backend)
	result, err := p.Run(context.Background(), Request{
		InputPath:      inputPath,
		OutputPath:     outputPath,
		SourceLanguage: "English",
		TargetLanguage: "French",
		FontPath:       "/non/existent/font.ttf",
	})
	require.Error(t, err)
	assert.Nil(t, result)

	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageTranslating, stageErr.Stage)

	var trErr *translate.TranslationError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, 2, trErr.Block, "the failing block's index must be reported")

	assert.Equal(t, 3, backend.calls, "dispatch must stop at the failing block")

	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Errorf("no output file may exist after a translation failure")
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("backend unreachable")
	err := failed(StageTranslating, cause)

	assert.Contains(t, err.Error(), "translating")
	assert.Contains(t, err.Error(), "backend unreachable")
	assert.ErrorIs(t, err, cause)
}

func TestDirectionSample(t *testing.T) {
	blocks := []pdf.TextBlock{
		{Text: "prose one "},
		{Text: "x+y=z", IsFormulaLike: true},
		{Text: "prose two"},
	}

	sample := directionSample(blocks)

	assert.Contains(t, sample, "prose one")
	assert.Contains(t, sample, "prose two")
	assert.NotContains(t, sample, "x+y=z", "formula text must not influence direction detection")
}

func TestDirectionSampleIsBounded(t *testing.T) {
	blocks := []pdf.TextBlock{
		{Text: strings.Repeat("a", directionSampleLimit)},
		{Text: "tail"},
	}

	sample := directionSample(blocks)

	assert.Equal(t, directionSampleLimit, len(sample))
	assert.NotContains(t, sample, "tail")
}

func TestDirectionSampleEmpty(t *testing.T) {
	assert.Equal(t, "", directionSample(nil))
}
