// Package engine is the crisis text analysis core. An Engine is a pure
// function of its input text and its read-only catalog: it holds no mutable
// state, performs no I/O and may be called from any number of goroutines.
package engine

import (
	"github.com/matthewbaird/crisis/internal/catalog"
	"github.com/matthewbaird/crisis/internal/escalation"
	"github.com/matthewbaird/crisis/internal/response"
	"github.com/matthewbaird/crisis/internal/signals"
	"github.com/matthewbaird/crisis/internal/types"
)

// DefaultMaxTextLength bounds how much of a message is analyzed.
const DefaultMaxTextLength = 64 << 10

// Scorer is an optional model-based collaborator. Score receives normalized
// text and returns a 0-100 confidence, or ok=false when it has no opinion.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(text string) (confidence int, ok bool)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(text string) (int, bool)

func (f ScorerFunc) Score(text string) (int, bool) { return f(text) }

// Option configures an Engine.
type Option func(*Engine)

// WithScorer blends a model score into confidence. The blend only ever
// raises confidence, and only when indicators fired; it never changes
// severity or escalation flags.
func WithScorer(s Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithMaxTextLength sets the analyzed prefix length in bytes. n <= 0
// disables the limit.
func WithMaxTextLength(n int) Option {
	return func(e *Engine) { e.maxTextLength = n }
}

// Engine analyzes text against a catalog.
type Engine struct {
	catalog       *catalog.Catalog
	scorer        Scorer
	maxTextLength int
}

// New returns an engine over c. A nil catalog selects catalog.Default().
func New(c *catalog.Catalog, opts ...Option) *Engine {
	if c == nil {
		c = catalog.Default()
	}
	e := &Engine{catalog: c, maxTextLength: DefaultMaxTextLength}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Analyze assesses text. It never fails: empty or whitespace-only text yields
// the "none" result with zero confidence.
func (e *Engine) Analyze(text string) types.AnalysisResult {
	normalized := signals.Normalize(text, e.maxTextLength)
	if normalized == "" {
		return noneResult()
	}

	r := aggregate(normalized, e.catalog, signals.Extract(normalized))

	if e.scorer != nil && r.HasCrisisIndicators {
		if s, ok := e.scorer.Score(normalized); ok {
			r.Confidence = max(r.Confidence, min(max(s, 0), 100))
		}
	}

	r.RecommendedActions = escalation.Recommend(r)
	return r
}

// EscalationActions returns the layered escalation tiers for r.
func (e *Engine) EscalationActions(r types.AnalysisResult) []types.EscalationAction {
	return escalation.Plan(r)
}

// Response renders audience-specific guidance for r.
func (e *Engine) Response(r types.AnalysisResult, audience types.Audience) (types.ResponseBundle, error) {
	return response.Generate(r, audience)
}
