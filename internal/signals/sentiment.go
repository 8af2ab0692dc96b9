package signals

import (
	"strings"
	"unicode"
)

// Sentiment is a coarse lexical heuristic, not a sentiment model: it counts
// words from two small fixed lists and returns positives minus negatives.
// Negation, sarcasm and intensity are ignored.
func Sentiment(text string) int {
	score := 0
	for _, w := range words(text) {
		switch {
		case positiveWords[w]:
			score++
		case negativeWords[w]:
			score--
		}
	}
	return score
}

var positiveWords = wordSet(
	"good", "great", "happy", "better", "hope", "hopeful", "grateful",
	"thankful", "love", "calm", "safe", "proud", "excited", "glad",
	"relieved", "enjoy", "enjoyed", "fun", "peaceful", "okay",
)

var negativeWords = wordSet(
	"hopeless", "worthless", "useless", "empty", "numb", "alone", "lonely",
	"sad", "depressed", "miserable", "pain", "hate", "tired", "exhausted",
	"scared", "afraid", "broken", "trapped", "burden", "guilty", "ashamed",
	"angry", "anxious", "failure", "dead", "die", "kill", "hurt",
)

func wordSet(ws ...string) map[string]bool {
	m := make(map[string]bool, len(ws))
	for _, w := range ws {
		m[w] = true
	}
	return m
}

// words splits text into letter runs, keeping inner apostrophes.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
