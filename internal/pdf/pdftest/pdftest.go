// Package pdftest builds small PDF documents for tests. The generated
// documents carry a correct cross-reference table and a Type1 font dictionary
// with explicit widths, so both text extraction and page rewriting can
// process them.
package pdftest

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// WriteDocument writes a single-page US Letter PDF to path with one text line
// per entry in lines, set in 12pt Helvetica from the top of the page down.
func WriteDocument(t *testing.T, path string, lines []string) {
	t.Helper()
	if err := os.WriteFile(path, Document(lines), 0o644); err != nil {
		t.Fatalf("failed to write fixture document: %v", err)
	}
}

// Document renders the PDF bytes for the given text lines.
func Document(lines []string) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n")
	y := 720
	for _, line := range lines {
		fmt.Fprintf(&content, "1 0 0 1 72 %d Tm (%s) Tj\n", y, escapeString(line))
		y -= 20
	}
	content.WriteString("ET\n")

	// One width per code point from 32 through 126.
	widths := strings.TrimSuffix(strings.Repeat("500 ", 95), " ")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>", widths),
	}

	var buf strings.Builder
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return []byte(buf.String())
}

// FindFont returns a TrueType font present on the host, or skips the test
// when none of the usual locations has one.
func FindFont(t *testing.T) string {
	t.Helper()
	candidates := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Supplemental/Arial.ttf",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	t.Skip("no TrueType font available on this host")
	return ""
}

// escapeString escapes the PDF string delimiters.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}
