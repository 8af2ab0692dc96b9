package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/matthewbaird/crisis/internal/types"
)

// ContextRadius is how many characters on each side of a keyword's first
// occurrence are searched for the indicator's context words.
const ContextRadius = 50

// Matches reports whether ind fires on normalized text. An indicator with no
// context words fires on keyword presence alone; otherwise at least one
// context word must appear within ContextRadius characters of the first
// keyword occurrence. Indicators never consume text, so overlapping keywords
// from different indicators match independently.
func Matches(text string, ind types.CrisisIndicator) bool {
	start := strings.Index(text, ind.Keyword)
	if start < 0 {
		return false
	}
	if len(ind.Context) == 0 {
		return true
	}
	window := contextWindow(text, start, start+len(ind.Keyword), ContextRadius)
	for _, w := range ind.Context {
		if strings.Contains(window, w) {
			return true
		}
	}
	return false
}

// contextWindow widens text[start:end] by radius runes on each side, clamped
// to the bounds of text.
func contextWindow(text string, start, end, radius int) string {
	for n := 0; n < radius && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	for n := 0; n < radius && end < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return text[start:end]
}
