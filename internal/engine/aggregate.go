package engine

import (
	"slices"

	"github.com/matthewbaird/crisis/internal/catalog"
	"github.com/matthewbaird/crisis/internal/signals"
	"github.com/matthewbaird/crisis/internal/types"
)

// urgencyEscalationThreshold is the accumulated urgency above which the
// maximum severity is raised one tier. Changing it changes who gets routed to
// a counselor; it is a product decision, not a tuning knob.
const urgencyEscalationThreshold = 3

// severityUrgency is the base urgency contributed by one triggered indicator.
var severityUrgency = map[types.Severity]int{
	types.SeverityCritical: 4,
	types.SeverityHigh:     3,
	types.SeverityMedium:   2,
	types.SeverityLow:      1,
}

// severityWeight is the confidence contributed by the maximum severity.
var severityWeight = map[types.Severity]int{
	types.SeverityCritical: 30,
	types.SeverityHigh:     20,
	types.SeverityMedium:   15,
	types.SeverityLow:      10,
	types.SeverityNone:     0,
}

// noneResult is the empty assessment, with non-nil collections so that it
// encodes as [] rather than null.
func noneResult() types.AnalysisResult {
	return types.AnalysisResult{
		SeverityLevel:      types.SeverityNone,
		DetectedCategories: []types.Category{},
		RecommendedActions: []string{},
		RiskFactors:        []types.Factor{},
		ProtectiveFactors:  []types.Factor{},
		Details: types.AnalysisDetails{
			TriggeredIndicators: []types.CrisisIndicator{},
			ContextualFactors:   []types.Factor{},
		},
	}
}

// aggregate matches every catalog indicator against text and combines the
// matches with the extracted signals.
func aggregate(text string, cat *catalog.Catalog, x signals.Extraction) types.AnalysisResult {
	r := noneResult()
	r.RiskFactors = x.RiskFactors
	r.ProtectiveFactors = x.ProtectiveFactors
	r.Details.SentimentScore = x.Sentiment
	r.Details.ContextualFactors = x.ContextualFactors

	maxSeverity := types.SeverityNone
	urgency := 0
	seen := make(map[types.Category]bool)

	cat.Each(func(ind types.CrisisIndicator) {
		if !Matches(text, ind) {
			return
		}
		ind.Context = slices.Clone(ind.Context)
		r.Details.TriggeredIndicators = append(r.Details.TriggeredIndicators, ind)
		if !seen[ind.Category] {
			seen[ind.Category] = true
			r.DetectedCategories = append(r.DetectedCategories, ind.Category)
		}
		if ind.Severity > maxSeverity {
			maxSeverity = ind.Severity
		}

		urgency += indicatorUrgency(ind, x.Urgency)

		if ind.ImmediateAction {
			r.EscalationRequired = true
			if ind.Severity == types.SeverityCritical {
				r.EmergencyServices = true
			}
		}
	})

	r.HasCrisisIndicators = len(r.Details.TriggeredIndicators) > 0

	if urgency > urgencyEscalationThreshold && maxSeverity != types.SeverityNone {
		maxSeverity = maxSeverity.Escalate()
		r.EscalationRequired = true
	}

	r.SeverityLevel = maxSeverity
	r.Details.UrgencyLevel = urgency
	r.Confidence = confidence(len(r.Details.TriggeredIndicators), maxSeverity, urgency, len(x.ContextualFactors), x.Sentiment)
	return r
}

// indicatorUrgency is one indicator's contribution to the urgency level.
// modifiers is the text-wide urgency term count, so every triggered
// indicator counts the same temporal words again.
func indicatorUrgency(ind types.CrisisIndicator, modifiers int) int {
	u := severityUrgency[ind.Severity] + 2*modifiers
	if ind.ImmediateAction {
		u += 3
	}
	return u
}

// confidence is a weighted sum where every term is capped so that no single
// heuristic dominates.
func confidence(triggered int, severity types.Severity, urgency, contextual, sentiment int) int {
	c := 20*min(triggered, 3) +
		severityWeight[severity] +
		min(5*urgency, 20) +
		min(3*contextual, 10)
	if sentiment < -2 {
		c += 10
	}
	return min(c, 100)
}
