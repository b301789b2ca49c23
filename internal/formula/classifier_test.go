package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a3tai/mcp-pdf-translator/internal/pdf"
)

func TestIsFormulaLike(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "empty string",
			text: "",
			want: false,
		},
		{
			name: "whitespace only",
			text: "   \t\n  ",
			want: false,
		},
		{
			name: "simple equation",
			text: "E=mc^2",
			want: true,
		},
		{
			name: "spaced equation",
			text: "E = mc^2",
			want: true,
		},
		{
			name: "pangram",
			text: "The quick brown fox jumps over the lazy dog",
			want: false,
		},
		{
			name: "integral expression",
			text: "∫f(x)dx=F(b)-F(a)",
			want: true,
		},
		{
			name: "summation",
			text: "∑_{i=1}^{n}x_i",
			want: true,
		},
		{
			name: "inequality chain",
			text: "0≤a<b≤1",
			want: true,
		},
		{
			name: "plain prose",
			text: "The quick brown fox jumps over the lazy dog near the riverbank.",
			want: false,
		},
		{
			name: "plain sentence without notation",
			text: "The experiment was repeated three times with similar outcomes each run",
			want: false,
		},
		{
			name: "numeric table row",
			text: "3.14 2.72 1.41 0.58 9.81",
			want: true,
		},
		{
			name: "arrow notation",
			text: "f:A→B",
			want: true,
		},
		{
			name: "loosely spaced prose with an equals sign",
			text: "the cat = a dog but the sun may not",
			want: false,
		},
		{
			name: "compact fraction",
			text: "(a+b)/(c-d)",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFormulaLike(tt.text), "text: %q", tt.text)
		})
	}
}

func TestIsFormulaLikeIgnoresSurroundingWhitespace(t *testing.T) {
	assert.Equal(t, IsFormulaLike("E=mc^2"), IsFormulaLike("   E=mc^2  \n"))
	assert.Equal(t, IsFormulaLike("plain words here"), IsFormulaLike("\tplain words here "))
}

func TestMark(t *testing.T) {
	blocks := []pdf.TextBlock{
		{PageIndex: 0, Text: "An ordinary paragraph of readable text without any notation."},
		{PageIndex: 0, Text: "x^2+y^2=r^2"},
		{PageIndex: 1, Text: ""},
	}

	marked := Mark(blocks)

	assert.Len(t, marked, len(blocks))
	assert.False(t, marked[0].IsFormulaLike)
	assert.True(t, marked[1].IsFormulaLike)
	assert.False(t, marked[2].IsFormulaLike)

	// Input blocks stay untouched.
	for _, b := range blocks {
		assert.False(t, b.IsFormulaLike)
	}

	// Marking is idempotent: flags depend only on text.
	again := Mark(marked)
	assert.Equal(t, marked, again)
}

func TestMarkEmptyInput(t *testing.T) {
	assert.Empty(t, Mark(nil))
	assert.Empty(t, Mark([]pdf.TextBlock{}))
}
