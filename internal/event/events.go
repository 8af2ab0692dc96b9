// Package event describes analysis outcomes as domain events. Events carry
// identifiers, severity, categories and flags; they never carry the analyzed
// text.
package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/crisis/internal/types"
)

// Event types.
const (
	TypeCrisisDetected     = "crisis_detected"
	TypeEscalationRequired = "escalation_required"
	TypeEmergencyServices  = "emergency_services"
)

// Source names where an analysis was requested.
const (
	SourceHTTP         = "http"
	SourceStream       = "stream"
	SourceConversation = "conversation"
)

// DomainEvent carries the canonical shape of every domain event.
type DomainEvent struct {
	ID         string
	EventType  string
	OccurredAt time.Time
	Summary    string
	Weight     string // "critical", "major", "minor", "info"
	Analysis   AnalysisPayload
}

// AnalysisPayload is the text-free digest of one AnalysisResult.
type AnalysisPayload struct {
	AnalysisID     string                 `json:"analysis_id"`
	SessionID      string                 `json:"session_id,omitempty"`
	Source         string                 `json:"source"`
	Severity       types.Severity         `json:"severity"`
	Categories     []types.Category       `json:"categories"`
	Confidence     int                    `json:"confidence"`
	UrgencyLevel   int                    `json:"urgency_level"`
	TriggeredCount int                    `json:"triggered_count"`
	Tiers          []types.EscalationTier `json:"tiers"`
}

// NewAnalysisID returns a fresh analysis identifier.
func NewAnalysisID() string { return uuid.New().String() }

func newID() string { return uuid.New().String() }

// Digest summarizes r for publication.
func Digest(analysisID, sessionID, source string, r types.AnalysisResult, tiers []types.EscalationTier) AnalysisPayload {
	return AnalysisPayload{
		AnalysisID:     analysisID,
		SessionID:      sessionID,
		Source:         source,
		Severity:       r.SeverityLevel,
		Categories:     append([]types.Category{}, r.DetectedCategories...),
		Confidence:     r.Confidence,
		UrgencyLevel:   r.Details.UrgencyLevel,
		TriggeredCount: len(r.Details.TriggeredIndicators),
		Tiers:          append([]types.EscalationTier{}, tiers...),
	}
}

func weightFor(s types.Severity) string {
	switch s {
	case types.SeverityCritical:
		return "critical"
	case types.SeverityHigh:
		return "major"
	case types.SeverityMedium, types.SeverityLow:
		return "minor"
	default:
		return "info"
	}
}

func categoryList(cs []types.Category) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// NewCrisisDetected reports that an analysis triggered at least one indicator.
func NewCrisisDetected(p AnalysisPayload, at time.Time) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  TypeCrisisDetected,
		OccurredAt: at,
		Summary: fmt.Sprintf("Analysis %s: %s severity in [%s], confidence %d",
			short(p.AnalysisID), p.Severity, categoryList(p.Categories), p.Confidence),
		Weight:   weightFor(p.Severity),
		Analysis: p,
	}
}

// NewEscalationRequired reports that an analysis requires counselor escalation.
func NewEscalationRequired(p AnalysisPayload, at time.Time) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  TypeEscalationRequired,
		OccurredAt: at,
		Summary:    fmt.Sprintf("Analysis %s requires escalation (%s)", short(p.AnalysisID), p.Severity),
		Weight:     "major",
		Analysis:   p,
	}
}

// NewEmergencyServices reports that an analysis requires emergency services.
func NewEmergencyServices(p AnalysisPayload, at time.Time) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  TypeEmergencyServices,
		OccurredAt: at,
		Summary:    fmt.Sprintf("Analysis %s requires emergency services", short(p.AnalysisID)),
		Weight:     "critical",
		Analysis:   p,
	}
}

// FromResult returns the events an analysis produces, most general first.
// Results without indicators produce none.
func FromResult(p AnalysisPayload, r types.AnalysisResult, at time.Time) []DomainEvent {
	if !r.HasCrisisIndicators {
		return nil
	}
	evts := []DomainEvent{NewCrisisDetected(p, at)}
	if r.EscalationRequired {
		evts = append(evts, NewEscalationRequired(p, at))
	}
	if r.EmergencyServices {
		evts = append(evts, NewEmergencyServices(p, at))
	}
	return evts
}
