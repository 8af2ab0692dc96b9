package eventbus

import (
	"context"
	"log/slog"

	"github.com/matthewbaird/crisis/internal/event"
)

// LogConsumer logs every analysis event. Only the text-free digest is
// logged.
type LogConsumer struct {
	log *slog.Logger
}

func NewLogConsumer(l *slog.Logger) *LogConsumer {
	if l == nil {
		l = slog.Default()
	}
	return &LogConsumer{log: l}
}

func (c *LogConsumer) HandleEvent(ctx context.Context, evt event.DomainEvent) error {
	level := slog.LevelInfo
	if evt.EventType == event.TypeEmergencyServices {
		level = slog.LevelWarn
	}
	c.log.Log(ctx, level, evt.Summary,
		"event", evt.EventType,
		"event_id", evt.ID,
		"weight", evt.Weight,
		"analysis_id", evt.Analysis.AnalysisID,
		"session_id", evt.Analysis.SessionID,
		"source", evt.Analysis.Source,
		"severity", evt.Analysis.Severity.String(),
		"confidence", evt.Analysis.Confidence,
	)
	return nil
}
