// Package types provides the value types shared by the crisis analysis
// packages. Every value here is created fresh per analysis call and owned by
// the caller that receives it.
package types

import (
	"fmt"
	"strings"
)

// Severity is the assessed danger level. The zero value is SeverityNone.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = [...]string{
	SeverityNone:     "none",
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

// String returns the lowercase severity name.
func (s Severity) String() string {
	if s < SeverityNone || s > SeverityCritical {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// Valid reports whether s is one of the five defined tiers.
func (s Severity) Valid() bool {
	return s >= SeverityNone && s <= SeverityCritical
}

// Escalate returns the next tier up, capped at critical.
func (s Severity) Escalate() Severity {
	if s >= SeverityCritical {
		return SeverityCritical
	}
	return s + 1
}

// ParseSeverity converts a severity name into a Severity.
func ParseSeverity(name string) (Severity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range severityNames {
		if s == n {
			return Severity(i), nil
		}
	}
	return SeverityNone, fmt.Errorf("unknown severity %q", name)
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Category classifies what kind of crisis an indicator points to.
type Category string

const (
	CategorySuicidal        Category = "suicidal"
	CategorySelfHarm        Category = "self-harm"
	CategorySubstanceAbuse  Category = "substance-abuse"
	CategoryViolence        Category = "violence"
	CategoryEmergency       Category = "emergency"
	CategoryGeneralDistress Category = "general-distress"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategorySuicidal,
	CategorySelfHarm,
	CategorySubstanceAbuse,
	CategoryViolence,
	CategoryEmergency,
	CategoryGeneralDistress,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Factor is a tag produced by one of the signal extractors.
type Factor string

// Contextual factors.
const (
	FactorSocialIsolation    Factor = "social_isolation"
	FactorImmediateTimeframe Factor = "immediate_timeframe"
	FactorMethodReference    Factor = "method_reference"
	FactorSupportAvailable   Factor = "support_available"
)

// Risk factors.
const (
	FactorSubstanceUse           Factor = "substance_use"
	FactorSpecificPlanning       Factor = "specific_planning"
	FactorIsolation              Factor = "isolation"
	FactorNegativeSelfPerception Factor = "negative_self_perception"
)

// Protective factors.
const (
	FactorAmbivalence          Factor = "ambivalence"
	FactorLifeResponsibilities Factor = "life_responsibilities"
	FactorProfessionalSupport  Factor = "professional_support"
	FactorFutureOrientation    Factor = "future_orientation"
)

// CrisisIndicator is one catalog entry. An empty Context means the keyword
// fires on presence alone.
type CrisisIndicator struct {
	Keyword         string   `json:"keyword" yaml:"keyword"`
	Severity        Severity `json:"severity" yaml:"severity"`
	Category        Category `json:"category" yaml:"category"`
	Context         []string `json:"context,omitempty" yaml:"context,omitempty"`
	ImmediateAction bool     `json:"immediate_action" yaml:"immediate_action"`
}

// AnalysisDetails explains how a result was reached.
type AnalysisDetails struct {
	TriggeredIndicators []CrisisIndicator `json:"triggered_indicators"`
	SentimentScore      int               `json:"sentiment_score"`
	ContextualFactors   []Factor          `json:"contextual_factors"`
	UrgencyLevel        int               `json:"urgency_level"`
}

// AnalysisResult is the assessment of a single piece of text.
type AnalysisResult struct {
	HasCrisisIndicators bool            `json:"has_crisis_indicators"`
	SeverityLevel       Severity        `json:"severity_level"`
	DetectedCategories  []Category      `json:"detected_categories"`
	Confidence          int             `json:"confidence"`
	RecommendedActions  []string        `json:"recommended_actions"`
	EscalationRequired  bool            `json:"escalation_required"`
	EmergencyServices   bool            `json:"emergency_services"`
	RiskFactors         []Factor        `json:"risk_factors"`
	ProtectiveFactors   []Factor        `json:"protective_factors"`
	Details             AnalysisDetails `json:"analysis_details"`
}

// HasCategory reports whether c was detected.
func (r AnalysisResult) HasCategory(c Category) bool {
	for _, d := range r.DetectedCategories {
		if d == c {
			return true
		}
	}
	return false
}

// HasFactor reports whether f is present among the risk, protective or
// contextual factors.
func (r AnalysisResult) HasFactor(f Factor) bool {
	for _, set := range [][]Factor{r.RiskFactors, r.ProtectiveFactors, r.Details.ContextualFactors} {
		for _, x := range set {
			if x == f {
				return true
			}
		}
	}
	return false
}

// EscalationTier orders escalation responses by urgency.
type EscalationTier int

const (
	TierSupport EscalationTier = iota
	TierMonitor
	TierUrgent
	TierImmediate
)

var tierNames = [...]string{
	TierSupport:   "support",
	TierMonitor:   "monitor",
	TierUrgent:    "urgent",
	TierImmediate: "immediate",
}

func (t EscalationTier) String() string {
	if t < TierSupport || t > TierImmediate {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

func (t EscalationTier) MarshalText() ([]byte, error) {
	if t < TierSupport || t > TierImmediate {
		return nil, fmt.Errorf("invalid escalation tier %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *EscalationTier) UnmarshalText(b []byte) error {
	for i, n := range tierNames {
		if n == string(b) {
			*t = EscalationTier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown escalation tier %q", string(b))
}

// EscalationAction is one layer of the human/process response to a result.
type EscalationAction struct {
	Type        EscalationTier `json:"type"`
	Description string         `json:"description"`
	Contacts    []string       `json:"contacts"`
	Resources   []string       `json:"resources"`
	Timeline    string         `json:"timeline"`
}

// Audience selects who a response bundle is written for.
type Audience string

const (
	AudienceSeeker Audience = "seeker"
	AudienceHelper Audience = "helper"
)

// Valid reports whether a is a known audience.
func (a Audience) Valid() bool {
	return a == AudienceSeeker || a == AudienceHelper
}

// ResponseBundle is audience-specific guidance for a result.
type ResponseBundle struct {
	Message   string   `json:"message"`
	Actions   []string `json:"actions"`
	Resources []string `json:"resources"`
	FollowUp  string   `json:"follow_up"`
}
