// Package wire implements the chat-stream analysis protocol: JSON messages
// over a WebSocket, one conversation session per connection.
package wire

import (
	"encoding/json"

	"github.com/matthewbaird/crisis/internal/engine"
	"github.com/matthewbaird/crisis/internal/types"
)

// Message types.
const (
	TypeAnalyze  = "analyze"
	TypePing     = "ping"
	TypeSession  = "session"
	TypeAnalysis = "analysis"
	TypePong     = "pong"
	TypeError    = "error"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // "analyze", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// AnalyzeData is the payload for "analyze" messages. Text is raw so that
// null or non-string values analyze as empty text.
type AnalyzeData struct {
	Text     json.RawMessage `json:"text"`
	Audience types.Audience  `json:"audience,omitempty"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "session", "analysis", "pong", "error"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData carries session information.
type SessionData struct {
	SessionID string `json:"session_id"`
	Window    int    `json:"window"`
}

// AnalysisData answers one analyze message.
type AnalysisData struct {
	AnalysisID   string                   `json:"analysis_id"`
	Result       types.AnalysisResult     `json:"result"`
	Escalations  []types.EscalationAction `json:"escalation_actions"`
	Response     *types.ResponseBundle    `json:"response,omitempty"`
	Conversation ConversationData         `json:"conversation"`
}

// ConversationData summarizes the session history including this message.
type ConversationData struct {
	Messages           int              `json:"messages"`
	PeakSeverity       types.Severity   `json:"peak_severity"`
	DetectedCategories []types.Category `json:"detected_categories"`
	EscalationRequired bool             `json:"escalation_required"`
	EmergencyServices  bool             `json:"emergency_services"`
	Trend              engine.Trend     `json:"trend"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
