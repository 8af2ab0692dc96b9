package wire

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/crisis/internal/engine"
	"github.com/matthewbaird/crisis/internal/handler"
	"github.com/matthewbaird/crisis/internal/types"
)

type received struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

func dial(t *testing.T, m *Manager) (*websocket.Conn, context.Context) {
	t.Helper()
	h := NewHandler(m, handler.NewAnalyzer(engine.New(nil), nil, nil))
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn, ctx
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn) received {
	t.Helper()
	var msg received
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

func analyze(t *testing.T, ctx context.Context, conn *websocket.Conn, id string, data any) AnalysisData {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: TypeAnalyze, ID: id, Data: raw}))

	msg := read(t, ctx, conn)
	require.Equal(t, TypeAnalysis, msg.Type, string(msg.Data))
	assert.Equal(t, id, msg.RequestID)

	var out AnalysisData
	require.NoError(t, json.Unmarshal(msg.Data, &out))
	return out
}

func TestStream_SessionAndConversation(t *testing.T) {
	m := NewManager(time.Hour, time.Hour, 2)
	conn, ctx := dial(t, m)

	hello := read(t, ctx, conn)
	require.Equal(t, TypeSession, hello.Type)
	var sess SessionData
	require.NoError(t, json.Unmarshal(hello.Data, &sess))
	assert.NotEmpty(t, sess.SessionID)
	assert.Equal(t, 2, sess.Window)
	assert.Equal(t, 1, m.Len())

	first := analyze(t, ctx, conn, "1", map[string]any{"text": "I had a good day"})
	assert.False(t, first.Result.HasCrisisIndicators)
	assert.Equal(t, 1, first.Conversation.Messages)
	assert.Equal(t, engine.TrendStable, first.Conversation.Trend)

	second := analyze(t, ctx, conn, "2", map[string]any{"text": "I want to kill myself tonight", "audience": "seeker"})
	assert.Equal(t, types.SeverityCritical, second.Result.SeverityLevel)
	assert.NotEmpty(t, second.AnalysisID)
	require.NotNil(t, second.Response)
	assert.Equal(t, engine.TrendEscalating, second.Conversation.Trend)
	assert.True(t, second.Conversation.EmergencyServices)

	// The window holds two messages, so the good day has dropped out.
	third := analyze(t, ctx, conn, "3", map[string]any{"text": "I talked to my counselor"})
	assert.Equal(t, 2, third.Conversation.Messages)
	assert.Equal(t, engine.TrendDeescalating, third.Conversation.Trend)
	assert.Equal(t, types.SeverityCritical, third.Conversation.PeakSeverity)
}

func TestStream_NullTextAndPing(t *testing.T) {
	m := NewManager(time.Hour, time.Hour, 5)
	conn, ctx := dial(t, m)
	read(t, ctx, conn)

	got := analyze(t, ctx, conn, "n", map[string]any{"text": nil})
	assert.Equal(t, types.SeverityNone, got.Result.SeverityLevel)
	assert.Zero(t, got.Result.Confidence)

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: TypePing, ID: "p"}))
	pong := read(t, ctx, conn)
	assert.Equal(t, TypePong, pong.Type)
	assert.Equal(t, "p", pong.RequestID)
}

func TestStream_Errors(t *testing.T) {
	m := NewManager(time.Hour, time.Hour, 5)
	conn, ctx := dial(t, m)
	read(t, ctx, conn)

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "execute", ID: "x"}))
	msg := read(t, ctx, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, string(msg.Data), "unknown_type")

	raw, _ := json.Marshal(map[string]any{"text": "hi", "audience": "crowd"})
	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: TypeAnalyze, ID: "a", Data: raw}))
	msg = read(t, ctx, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, string(msg.Data), "invalid_audience")

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: TypeAnalyze, ID: "b", Data: json.RawMessage(`"text"`)}))
	msg = read(t, ctx, conn)
	assert.Contains(t, string(msg.Data), "invalid_data")
}

func TestStream_ExpiredSessionCloses(t *testing.T) {
	m := NewManager(time.Nanosecond, time.Hour, 5)
	conn, ctx := dial(t, m)
	read(t, ctx, conn)

	time.Sleep(time.Millisecond)
	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: TypePing, ID: "late"}))
	msg := read(t, ctx, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, string(msg.Data), "session_expired")

	var next received
	err := wsjson.Read(ctx, conn, &next)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
}

func TestSession_AddMessageBoundsHistory(t *testing.T) {
	s := NewSession(3)
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		s.AddMessage(m)
	}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"d", "e", "f"}, s.AddMessage("f"))
}

func TestManager_Cleanup(t *testing.T) {
	m := NewManager(time.Hour, time.Nanosecond, 5)
	s := m.Create()
	time.Sleep(time.Millisecond)

	assert.Equal(t, 1, m.Cleanup())
	assert.Nil(t, m.Get(s.ID))
	assert.Zero(t, m.Len())

	m = NewManager(time.Hour, time.Hour, 5)
	s = m.Create()
	assert.Same(t, s, m.Get(s.ID))
	m.Remove(s.ID)
	assert.Nil(t, m.Get(s.ID))
}
