package engine

import (
	"github.com/matthewbaird/crisis/internal/types"
)

// Trend describes how severity moved across a conversation.
type Trend string

const (
	TrendEscalating   Trend = "escalating"
	TrendDeescalating Trend = "de-escalating"
	TrendStable       Trend = "stable"
)

// ConversationAnalysis summarizes a message history analyzed one message at
// a time.
type ConversationAnalysis struct {
	Messages           []types.AnalysisResult `json:"messages"`
	PeakSeverity       types.Severity         `json:"peak_severity"`
	DetectedCategories []types.Category       `json:"detected_categories"`
	EscalationRequired bool                   `json:"escalation_required"`
	EmergencyServices  bool                   `json:"emergency_services"`
	Trend              Trend                  `json:"trend"`
}

// Latest returns the result for the most recent message.
func (c ConversationAnalysis) Latest() (types.AnalysisResult, bool) {
	if len(c.Messages) == 0 {
		return types.AnalysisResult{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// AnalyzeConversation analyzes each message independently and rolls the
// results up. Messages are ordered oldest first.
func (e *Engine) AnalyzeConversation(messages []string) ConversationAnalysis {
	out := ConversationAnalysis{
		Messages:           make([]types.AnalysisResult, 0, len(messages)),
		DetectedCategories: []types.Category{},
		Trend:              TrendStable,
	}
	seen := make(map[types.Category]bool)
	for _, m := range messages {
		r := e.Analyze(m)
		out.Messages = append(out.Messages, r)
		out.PeakSeverity = max(out.PeakSeverity, r.SeverityLevel)
		out.EscalationRequired = out.EscalationRequired || r.EscalationRequired
		out.EmergencyServices = out.EmergencyServices || r.EmergencyServices
		for _, c := range r.DetectedCategories {
			if !seen[c] {
				seen[c] = true
				out.DetectedCategories = append(out.DetectedCategories, c)
			}
		}
	}
	out.Trend = severityTrend(out.Messages)
	return out
}

// severityTrend compares the peak severity of the first and second halves
// of the history.
func severityTrend(results []types.AnalysisResult) Trend {
	if len(results) < 2 {
		return TrendStable
	}
	mid := len(results) / 2
	first, second := peak(results[:mid]), peak(results[mid:])
	switch {
	case second > first:
		return TrendEscalating
	case first > second:
		return TrendDeescalating
	default:
		return TrendStable
	}
}

func peak(results []types.AnalysisResult) types.Severity {
	p := types.SeverityNone
	for _, r := range results {
		p = max(p, r.SeverityLevel)
	}
	return p
}
