package pdf

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Direction represents the dominant writing direction of a script.
type Direction int

const (
	// DirectionLTR covers Latin, Cyrillic, CJK and most other scripts.
	DirectionLTR Direction = iota
	// DirectionRTL covers Arabic-derived scripts and Hebrew.
	DirectionRTL
)

// String returns "ltr" or "rtl".
func (d Direction) String() string {
	if d == DirectionRTL {
		return "rtl"
	}
	return "ltr"
}

// rtlLanguageMarkers are lowercase substrings of language names whose scripts
// run right to left. Language identifiers are free-form strings defined by the
// translation backend's vocabulary (e.g. "Western Persian"), so matching is
// by substring rather than by code.
var rtlLanguageMarkers = []string{
	"arabic",
	"persian",
	"farsi",
	"dari",
	"hebrew",
	"yiddish",
	"urdu",
	"pashto",
	"sindhi",
	"uyghur",
	"kurdish",
	"dhivehi",
}

// LanguageDirection resolves a backend language name to a writing direction.
// Unknown names resolve to left-to-right.
func LanguageDirection(language string) Direction {
	name := strings.ToLower(language)
	for _, marker := range rtlLanguageMarkers {
		if strings.Contains(name, marker) {
			return DirectionRTL
		}
	}
	return DirectionLTR
}

// DetectDirection inspects text and returns its dominant direction based on
// Unicode bidi character classes. Text without strong directional characters
// is reported as left-to-right.
func DetectDirection(text string) Direction {
	ltr, rtl := 0, 0
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			ltr++
		case bidi.R, bidi.AL:
			rtl++
		}
	}
	if rtl > ltr {
		return DirectionRTL
	}
	return DirectionLTR
}

// TargetDirection decides the placement direction for translated output: the
// target language name wins, and a sample of translated text breaks the tie
// when the language name is not recognized as right-to-left.
func TargetDirection(targetLanguage, sample string) Direction {
	if LanguageDirection(targetLanguage) == DirectionRTL {
		return DirectionRTL
	}
	return DetectDirection(sample)
}
