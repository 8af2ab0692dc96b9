package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matthewbaird/crisis/internal/event"
	"github.com/matthewbaird/crisis/internal/handler"
)

// readLimit bounds one client frame.
const readLimit = 1 << 20

// Handler manages stream WebSocket connections.
type Handler struct {
	sessions *Manager
	analyzer *handler.Analyzer
	origins  []string
}

// NewHandler creates a WebSocket handler. origins lists the allowed Origin
// host patterns; empty allows same-origin requests only.
func NewHandler(sessions *Manager, a *handler.Analyzer, origins ...string) *Handler {
	return &Handler{sessions: sessions, analyzer: a, origins: origins}
}

// ServeHTTP upgrades to WebSocket and runs the message loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Warn("stream: websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	sess := h.sessions.Create()
	defer h.sessions.Remove(sess.ID)
	ctx := r.Context()

	h.send(ctx, conn, ServerMessage{
		Type: TypeSession,
		Data: SessionData{SessionID: sess.ID, Window: h.sessions.window},
	})

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				slog.Debug("stream: connection closed", "session_id", sess.ID, "status", status)
			} else {
				slog.Debug("stream: read failed", "session_id", sess.ID, "error", err)
			}
			return
		}

		if h.sessions.Get(sess.ID) == nil {
			h.sendError(ctx, conn, msg.ID, "session_expired", "session expired; reconnect to start a new one")
			conn.Close(websocket.StatusPolicyViolation, "session expired")
			return
		}

		switch msg.Type {
		case TypeAnalyze:
			h.handleAnalyze(ctx, conn, sess, msg)
		case TypePing:
			sess.Touch()
			h.send(ctx, conn, ServerMessage{Type: TypePong, RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleAnalyze(ctx context.Context, conn *websocket.Conn, sess *Session, msg ClientMessage) {
	var data AnalyzeData
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid analyze data")
			return
		}
	}
	if data.Audience != "" && !data.Audience.Valid() {
		h.sendError(ctx, conn, msg.ID, "invalid_audience", "audience must be seeker or helper")
		return
	}

	text := handler.TextValue(data.Text)
	history := sess.AddMessage(text)

	an := h.analyzer.Analyze(ctx, text, event.SourceStream, sess.ID)
	conv := h.analyzer.Engine().AnalyzeConversation(history)

	out := AnalysisData{
		AnalysisID:  an.ID,
		Result:      an.Result,
		Escalations: an.Escalations,
		Conversation: ConversationData{
			Messages:           len(conv.Messages),
			PeakSeverity:       conv.PeakSeverity,
			DetectedCategories: conv.DetectedCategories,
			EscalationRequired: conv.EscalationRequired,
			EmergencyServices:  conv.EmergencyServices,
			Trend:              conv.Trend,
		},
	}
	if data.Audience != "" {
		b, err := h.analyzer.Engine().Response(an.Result, data.Audience)
		if err != nil {
			h.sendError(ctx, conn, msg.ID, "invalid_audience", err.Error())
			return
		}
		out.Response = &b
	}
	h.send(ctx, conn, ServerMessage{Type: TypeAnalysis, RequestID: msg.ID, Data: out})
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		slog.Debug("stream: write failed", "type", msg.Type, "error", err)
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      TypeError,
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: message,
		},
	})
}
