package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/crisis/internal/engine"
)

func testConfig() Config {
	return Config{
		MaxTextLength:      engine.DefaultMaxTextLength,
		EventBuffer:        16,
		SessionMaxAge:      time.Hour,
		SessionIdleTimeout: time.Hour,
		ConversationWindow: 10,
	}
}

func startApp(t *testing.T, cfg Config) (*App, *httptest.Server) {
	t.Helper()
	app := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	app.Bus.Start(ctx)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		app.Bus.Stop()
	})
	return app, srv
}

func TestRoutes(t *testing.T) {
	_, srv := startApp(t, testConfig())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/analyze", "application/json", strings.NewReader(`{"text":"I just took an overdose"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "analysis_id")
	assert.Contains(t, body, "escalation_actions")

	resp, err = http.Get(srv.URL + "/v1/catalog/categories/emergency")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventsReachMetrics(t *testing.T) {
	app, srv := startApp(t, testConfig())

	resp, err := http.Post(srv.URL+"/v1/analyze", "application/json", strings.NewReader(`{"text":"I want to kill myself tonight and I have a plan"}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(app.Metrics.CategoryDetections.WithLabelValues("suicidal")) >= 1 &&
			testutil.ToFloat64(app.Metrics.Escalations.WithLabelValues("immediate")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), `crisis_analyses_total{severity="critical"} 1`)
}

func TestScorerOption(t *testing.T) {
	cfg := testConfig()
	cfg.Scorer = engine.ScorerFunc(func(string) (int, bool) { return 97, true })
	_, srv := startApp(t, cfg)

	resp, err := http.Post(srv.URL+"/v1/analyze", "application/json", strings.NewReader(`{"text":"I feel hopeless"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Result struct {
			Confidence int `json:"confidence"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 97, body.Result.Confidence)
}

func TestStreamRoute(t *testing.T) {
	_, srv := startApp(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/stream", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var hello struct {
		Type string `json:"type"`
	}
	require.NoError(t, wsjson.Read(ctx, conn, &hello))
	assert.Equal(t, "session", hello.Type)
}

func TestStreamRoute_AllowedOrigins(t *testing.T) {
	opts := &websocket.DialOptions{HTTPHeader: http.Header{"Origin": {"https://console.example.org"}}}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, srv := startApp(t, testConfig())
	_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/stream", opts)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	cfg := testConfig()
	cfg.AllowedOrigins = []string{"console.example.org"}
	_, srv = startApp(t, cfg)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/stream", opts)
	require.NoError(t, err)
	conn.CloseNow()
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", cfg.Port))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
