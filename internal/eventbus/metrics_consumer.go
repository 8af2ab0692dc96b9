package eventbus

import (
	"context"

	"github.com/matthewbaird/crisis/internal/event"
	"github.com/matthewbaird/crisis/internal/metrics"
)

// MetricsConsumer counts detected categories and planned escalation tiers
// from crisis_detected events. The flag events are ignored so each analysis
// is counted once.
type MetricsConsumer struct {
	m *metrics.Metrics
}

// NewMetricsConsumer creates a consumer recording into m.
func NewMetricsConsumer(m *metrics.Metrics) *MetricsConsumer {
	return &MetricsConsumer{m: m}
}

// HandleEvent records crisis_detected events.
func (c *MetricsConsumer) HandleEvent(_ context.Context, evt event.DomainEvent) error {
	if evt.EventType != event.TypeCrisisDetected {
		return nil
	}
	c.m.ObserveCategories(evt.Analysis.Categories)
	c.m.ObserveEscalations(evt.Analysis.Tiers)
	return nil
}
