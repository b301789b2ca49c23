// Package formula provides a lightweight heuristic detector for formula-like
// text blocks. The checks favor mathematical notation over ordinary prose and
// are intentionally cheap so they can run over many small blocks; false
// positives and negatives are accepted.
package formula

import (
	"strings"
	"unicode"

	"github.com/a3tai/mcp-pdf-translator/internal/pdf"
)

// Heuristic thresholds. Exposed as constants so the decision rule in
// IsFormulaLike reads against its documented cutoffs.
const (
	// NonAlphaRatioThreshold is the minimum proportion of non-alphabetic
	// characters for a block to count as symbol-dense.
	NonAlphaRatioThreshold = 0.35

	// DigitRatioThreshold is the minimum proportion of digits that
	// contributes to a formula-like appearance.
	DigitRatioThreshold = 0.15

	// MaxSpaceRatio is the upper bound on the fraction of whitespace allowed
	// in compact formulas.
	MaxSpaceRatio = 0.20

	// MinMathSymbols is the number of distinct math symbols that should
	// appear to trigger detection.
	MinMathSymbols = 1
)

// mathSymbols holds characters commonly found in mathematical expressions:
// relational and set operators, Greek letters frequent in formulas, arrows,
// the bracket family, arithmetic operators, and sub/superscript markers.
var mathSymbols = map[rune]struct{}{
	'=': {}, '≈': {}, '≠': {}, '≤': {}, '≥': {},
	'∑': {}, '∫': {}, '√': {}, '±': {},
	'→': {}, '←': {}, '⇒': {}, '⇔': {},
	'×': {}, '·': {}, '÷': {}, '∞': {},
	'π': {}, 'Δ': {}, '∂': {}, '∇': {},
	'⊂': {}, '⊆': {}, '⊇': {}, '⊃': {}, '∝': {},
	'%': {}, '+': {}, '-': {}, '−': {}, '*': {}, '/': {},
	'^': {}, '_': {}, '<': {}, '>': {}, '|': {},
	'(': {}, ')': {}, '[': {}, ']': {}, '{': {}, '}': {},
}

// IsFormulaLike reports whether text resembles a mathematical formula. It is
// a pure function over the trimmed string: empty or whitespace-only input is
// never formula-like. The rule combines a distinct math-symbol count with the
// whitespace, non-alphabetic, and digit ratios of the text.
func IsFormulaLike(text string) bool {
	normalized := strings.TrimSpace(text)
	if normalized == "" {
		return false
	}

	var total, spaces, nonAlpha, digits int
	distinct := map[rune]struct{}{}

	for _, r := range normalized {
		total++
		if unicode.IsSpace(r) {
			spaces++
		}
		if !unicode.IsLetter(r) {
			nonAlpha++
		}
		if unicode.IsDigit(r) {
			digits++
		}
		if _, ok := mathSymbols[r]; ok {
			distinct[r] = struct{}{}
		}
	}

	spaceRatio := float64(spaces) / float64(total)
	nonAlphaRatio := float64(nonAlpha) / float64(total)
	digitRatio := float64(digits) / float64(total)

	denseSymbols := nonAlphaRatio >= NonAlphaRatioThreshold
	compactSpacing := spaceRatio <= MaxSpaceRatio
	hasMathSymbols := len(distinct) >= MinMathSymbols
	numericWeight := digitRatio >= DigitRatioThreshold

	return (hasMathSymbols && (denseSymbols || compactSpacing)) ||
		(denseSymbols && compactSpacing && numericWeight)
}

// Mark returns a new block sequence with each block's formula flag set from
// its text. The input blocks are never modified.
func Mark(blocks []pdf.TextBlock) []pdf.TextBlock {
	marked := make([]pdf.TextBlock, len(blocks))
	for i, block := range blocks {
		block.IsFormulaLike = IsFormulaLike(block.Text)
		marked[i] = block
	}
	return marked
}
