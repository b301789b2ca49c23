package translate

import (
	"context"
	"strings"

	"github.com/a3tai/mcp-pdf-translator/internal/pdf"
)

// Dispatcher rewrites block text through the backend. Calls are issued one at
// a time, in block order, each a blocking round trip; there is no batching
// and no deduplication of repeated text across blocks.
type Dispatcher struct {
	backend Backend
}

// NewDispatcher creates a dispatcher bound to a backend.
func NewDispatcher(backend Backend) *Dispatcher {
	return &Dispatcher{backend: backend}
}

// DispatchStats summarizes one dispatch pass.
type DispatchStats struct {
	Translated     int `json:"translated"`
	SkippedFormula int `json:"skipped_formula"`
	SkippedEmpty   int `json:"skipped_empty"`
	KeptOriginal   int `json:"kept_original"`
}

// Dispatch returns a new block sequence in which every non-formula block with
// non-blank text carries the backend's translation. Formula-like and blank
// blocks pass through unmodified. A failed backend call aborts the whole
// dispatch with a TranslationError; there is no partial result and no retry
// here — retries, if desired, belong to the transport.
//
// If the backend returns an empty string for non-empty input, the original
// text is retained rather than erasing content. This is a deliberate,
// narrowly-scoped policy; it applies to nothing but this one case.
func (d *Dispatcher) Dispatch(ctx context.Context, blocks []pdf.TextBlock, sourceLanguage, targetLanguage string) ([]pdf.TextBlock, DispatchStats, error) {
	out := make([]pdf.TextBlock, len(blocks))
	copy(out, blocks)

	var stats DispatchStats
	for i := range out {
		if out[i].IsFormulaLike {
			stats.SkippedFormula++
			continue
		}
		if strings.TrimSpace(out[i].Text) == "" {
			stats.SkippedEmpty++
			continue
		}

		translated, err := d.backend.Translate(ctx, out[i].Text, sourceLanguage, targetLanguage)
		if err != nil {
			return nil, stats, &TranslationError{Block: i, Err: err}
		}

		if translated == "" {
			stats.KeptOriginal++
			continue
		}

		out[i].Text = translated
		stats.Translated++
	}

	return out, stats, nil
}
