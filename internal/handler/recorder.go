package handler

import (
	"context"
	"time"

	"github.com/matthewbaird/crisis/internal/engine"
	"github.com/matthewbaird/crisis/internal/event"
	"github.com/matthewbaird/crisis/internal/metrics"
	"github.com/matthewbaird/crisis/internal/types"
)

// Analysis is one engine result with the identifiers and escalation plan a
// transport returns to its caller.
type Analysis struct {
	ID          string                   `json:"analysis_id"`
	Result      types.AnalysisResult     `json:"result"`
	Escalations []types.EscalationAction `json:"escalation_actions"`
}

// Analyzer runs the engine for a transport and reports the outcome to the
// event bus and metrics. Recording is best-effort: it never fails or delays
// an analysis beyond a non-blocking publish.
type Analyzer struct {
	engine   *engine.Engine
	recorder *event.Recorder
	metrics  *metrics.Metrics
}

// NewAnalyzer wires an engine to its observers. recorder and m may be nil.
func NewAnalyzer(e *engine.Engine, recorder *event.Recorder, m *metrics.Metrics) *Analyzer {
	return &Analyzer{engine: e, recorder: recorder, metrics: m}
}

// Engine returns the wrapped engine.
func (a *Analyzer) Engine() *engine.Engine { return a.engine }

// Analyze assesses text and records the outcome under source and sessionID.
func (a *Analyzer) Analyze(ctx context.Context, text, source, sessionID string) Analysis {
	start := time.Now()
	res := a.engine.Analyze(text)
	elapsed := time.Since(start)

	out := Analysis{
		ID:          event.NewAnalysisID(),
		Result:      res,
		Escalations: a.engine.EscalationActions(res),
	}
	a.observe(ctx, out, source, sessionID, elapsed)
	return out
}

// AnalyzeConversation analyzes messages oldest first and records only the
// latest message's outcome, so replayed history is not counted twice.
func (a *Analyzer) AnalyzeConversation(ctx context.Context, messages []string, source, sessionID string) (string, engine.ConversationAnalysis) {
	start := time.Now()
	conv := a.engine.AnalyzeConversation(messages)
	elapsed := time.Since(start)

	id := event.NewAnalysisID()
	if latest, ok := conv.Latest(); ok {
		a.observe(ctx, Analysis{
			ID:          id,
			Result:      latest,
			Escalations: a.engine.EscalationActions(latest),
		}, source, sessionID, elapsed)
	}
	return id, conv
}

func (a *Analyzer) observe(ctx context.Context, an Analysis, source, sessionID string, elapsed time.Duration) {
	if a.metrics != nil {
		a.metrics.ObserveAnalysis(an.Result, elapsed)
	}
	tiers := make([]types.EscalationTier, len(an.Escalations))
	for i, e := range an.Escalations {
		tiers[i] = e.Type
	}
	a.recorder.Record(ctx, event.Digest(an.ID, sessionID, source, an.Result, tiers), an.Result)
}
