package pdf

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// rowTolerance is the baseline Y distance, in points, within which character
// runs are considered part of the same visual row.
const rowTolerance = 3.0

// Layout extracts positioned text blocks from PDF files. Character runs from
// the page content stream are grouped into visual rows, and each row becomes
// one TextBlock with aggregated font metadata; images and vector graphics are
// never surfaced here because they survive through whole-page copying at
// reconstruction time.
type Layout struct {
	maxFileSize int64
	validator   *Validator
}

// NewLayout creates a new layout extractor with the specified constraints.
func NewLayout(maxFileSize int64) *Layout {
	return &Layout{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// ExtractBlocks walks every page of the document and returns one TextBlock
// per visual text row, in page order and top-to-bottom within a page. An
// unreadable or corrupt document fails the whole extraction; there is no
// partial-document recovery.
func (l *Layout) ExtractBlocks(req ExtractBlocksRequest) (*ExtractBlocksResult, error) {
	if err := l.validator.validatePDFFile(req.Path); err != nil {
		return nil, &DocumentReadError{Path: req.Path, Err: err}
	}

	f, r, err := pdf.Open(req.Path)
	if err != nil {
		return nil, &DocumentReadError{Path: req.Path, Err: err}
	}
	defer f.Close()

	totalPages := r.NumPage()
	blocks := []TextBlock{}

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		if page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		runs, err := pageRuns(page)
		if err != nil {
			return nil, &DocumentReadError{Path: req.Path, Err: err}
		}

		for _, row := range groupRows(runs) {
			blocks = append(blocks, aggregateRuns(pageNum-1, row))
		}
	}

	return &ExtractBlocksResult{
		Path:   req.Path,
		Pages:  totalPages,
		Blocks: blocks,
	}, nil
}

// PageCount returns the number of pages in the document.
func (l *Layout) PageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, &DocumentReadError{Path: path, Err: err}
	}
	defer f.Close()
	return r.NumPage(), nil
}

// pageRuns decodes the page content stream into positioned character runs.
// Each run carries text, origin, advance width, font name and font size.
// The underlying reader panics on malformed content streams, so decoding is
// fenced and surfaced as an error.
func pageRuns(page pdf.Page) (runs []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode page content: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// groupRows buckets character runs into visual rows by baseline Y. Runs whose
// baselines sit within rowTolerance of an existing bucket join it; rows are
// returned top to bottom, runs within a row left to right.
func groupRows(runs []pdf.Text) [][]pdf.Text {
	type bucket struct {
		yMin, yMax float64
		runs       []pdf.Text
	}

	var buckets []bucket
	for _, t := range runs {
		placed := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-rowTolerance && t.Y <= buckets[i].yMax+rowTolerance {
				buckets[i].runs = append(buckets[i].runs, t)
				if t.Y < buckets[i].yMin {
					buckets[i].yMin = t.Y
				}
				if t.Y > buckets[i].yMax {
					buckets[i].yMax = t.Y
				}
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{yMin: t.Y, yMax: t.Y, runs: []pdf.Text{t}})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([][]pdf.Text, len(buckets))
	for i := range buckets {
		row := buckets[i].runs
		sort.SliceStable(row, func(a, b int) bool {
			return row[a].X < row[b].X
		})
		rows[i] = row
	}
	return rows
}

// aggregateRuns folds a row of character runs into a single TextBlock. Every
// run contributes a weight of max(non-whitespace length, 1) so that short or
// empty runs cannot dominate the font aggregates: font size is the
// weight-normalized mean over sized runs, font name is the name with the
// largest accumulated weight (first seen wins ties).
func aggregateRuns(pageIndex int, runs []pdf.Text) TextBlock {
	var (
		text        []byte
		sizeSum     float64
		sizeWeight  int
		fontWeights = map[string]int{}
		fontOrder   []string
		box         BoundingBox
		first       = true
	)

	for _, run := range runs {
		weight := runWeight(run.S)

		text = append(text, run.S...)

		if run.FontSize > 0 {
			sizeSum += run.FontSize * float64(weight)
			sizeWeight += weight
		}

		if run.Font != "" {
			if _, seen := fontWeights[run.Font]; !seen {
				fontOrder = append(fontOrder, run.Font)
			}
			fontWeights[run.Font] += weight
		}

		// Runs carry the baseline origin and advance width; the ascent is
		// approximated by the run's font size.
		top := run.Y + run.FontSize
		if first {
			box = BoundingBox{X0: run.X, Y0: run.Y, X1: run.X + run.W, Y1: top}
			first = false
			continue
		}
		if run.X < box.X0 {
			box.X0 = run.X
		}
		if run.X+run.W > box.X1 {
			box.X1 = run.X + run.W
		}
		if run.Y < box.Y0 {
			box.Y0 = run.Y
		}
		if top > box.Y1 {
			box.Y1 = top
		}
	}

	block := TextBlock{
		PageIndex: pageIndex,
		Box:       box,
		Text:      string(text),
	}

	if sizeWeight > 0 {
		block.FontSize = sizeSum / float64(sizeWeight)
	}

	best := 0
	for _, name := range fontOrder {
		if fontWeights[name] > best {
			best = fontWeights[name]
			block.FontName = name
		}
	}

	return block
}

// runWeight returns the aggregation weight of a single run: its
// non-whitespace rune count, floored at 1.
func runWeight(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	if n < 1 {
		return 1
	}
	return n
}
