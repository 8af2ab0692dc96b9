// Package signals provides the signal extractors the crisis engine runs over
// normalized text: urgency modifiers, a lexical sentiment score, and three
// families of factor tags (contextual, risk, protective). Every extractor is
// a pure function of its input and independent of indicator matching.
package signals

import (
	"strings"
	"unicode/utf8"

	"github.com/matthewbaird/crisis/internal/types"
)

// Extraction holds the output of every extractor for one text.
type Extraction struct {
	Urgency           int
	Sentiment         int
	ContextualFactors []types.Factor
	RiskFactors       []types.Factor
	ProtectiveFactors []types.Factor
}

// Extract runs every extractor over normalized text.
func Extract(text string) Extraction {
	return Extraction{
		Urgency:           CountUrgency(text),
		Sentiment:         Sentiment(text),
		ContextualFactors: Contextual.Match(text),
		RiskFactors:       Risk.Match(text),
		ProtectiveFactors: Protective.Match(text),
	}
}

// Normalize lowercases text, collapses runs of whitespace to one space and
// trims the ends. Texts longer than maxBytes are cut on a rune boundary;
// maxBytes <= 0 disables the limit.
func Normalize(text string, maxBytes int) string {
	if maxBytes > 0 && len(text) > maxBytes {
		cut := maxBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
