package signals

import (
	"regexp"
)

// UrgencyTerms are temporal-immediacy phrases. Overlapping terms ("now" and
// "right now") are counted separately.
var UrgencyTerms = []string{
	"now",
	"right now",
	"tonight",
	"today",
	"immediately",
	"soon",
	"before morning",
	"this weekend",
	"any minute",
	"can't wait anymore",
}

var urgencyPatterns = compileTerms(UrgencyTerms)

// CountUrgency returns how many distinct urgency terms appear in text as
// whole words. Repeats of the same term count once.
func CountUrgency(text string) int {
	n := 0
	for _, re := range urgencyPatterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

func compileTerms(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, t := range terms {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return out
}
