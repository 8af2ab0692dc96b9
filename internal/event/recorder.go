package event

import (
	"context"
	"time"

	"github.com/matthewbaird/crisis/internal/types"
)

// Publisher sends domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt DomainEvent)
}

// Recorder turns analysis results into domain events and publishes them.
// A nil Recorder or one without a publisher records nothing.
type Recorder struct {
	bus Publisher
	now func() time.Time
}

// NewRecorder creates a Recorder publishing to bus.
func NewRecorder(bus Publisher) *Recorder {
	return &Recorder{bus: bus, now: time.Now}
}

// Record publishes the events for r and returns how many were published.
func (r *Recorder) Record(ctx context.Context, p AnalysisPayload, res types.AnalysisResult) int {
	if r == nil || r.bus == nil {
		return 0
	}
	evts := FromResult(p, res, r.now())
	for _, evt := range evts {
		r.bus.Publish(ctx, evt)
	}
	return len(evts)
}
