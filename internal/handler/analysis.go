package handler

import (
	"encoding/json"
	"net/http"

	"github.com/matthewbaird/crisis/internal/engine"
	"github.com/matthewbaird/crisis/internal/event"
	"github.com/matthewbaird/crisis/internal/types"
)

// maxConversationMessages bounds POST /v1/conversations/analyze.
const maxConversationMessages = 200

// AnalysisHandler implements the analysis HTTP endpoints.
type AnalysisHandler struct {
	analyzer *Analyzer
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(a *Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: a}
}

type analyzeRequest struct {
	Text     json.RawMessage `json:"text"`
	Audience types.Audience  `json:"audience,omitempty"`
}

type analyzeResponse struct {
	Analysis
	Response *types.ResponseBundle `json:"response,omitempty"`
}

// HandleAnalyze analyzes one message. A missing, null or non-string text is
// analyzed as empty text. When an audience is given the response bundle is
// included.
// POST /v1/analyze
func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	if req.Audience != "" && !req.Audience.Valid() {
		writeError(w, http.StatusBadRequest, "INVALID_AUDIENCE", "audience must be seeker or helper")
		return
	}

	an := h.analyzer.Analyze(r.Context(), textValue(req.Text), event.SourceHTTP, "")
	resp := analyzeResponse{Analysis: an}
	if req.Audience != "" {
		b, err := h.analyzer.Engine().Response(an.Result, req.Audience)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_AUDIENCE", err.Error())
			return
		}
		resp.Response = &b
	}
	writeJSON(w, http.StatusOK, resp)
}

type resultRequest struct {
	Result   *types.AnalysisResult `json:"result"`
	Audience types.Audience        `json:"audience,omitempty"`
}

// HandleEscalations plans escalation tiers for a previously returned result.
// POST /v1/escalations
func (h *AnalysisHandler) HandleEscalations(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, "MISSING_RESULT", "result is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"escalation_actions": h.analyzer.Engine().EscalationActions(*req.Result),
	})
}

// HandleResponse renders the guidance bundle for a result and audience.
// POST /v1/responses
func (h *AnalysisHandler) HandleResponse(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, "MISSING_RESULT", "result is required")
		return
	}
	b, err := h.analyzer.Engine().Response(*req.Result, req.Audience)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_AUDIENCE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type conversationRequest struct {
	Messages []json.RawMessage `json:"messages"`
}

type conversationResponse struct {
	ID string `json:"analysis_id"`
	engine.ConversationAnalysis
}

// HandleConversation analyzes a message history, oldest first.
// POST /v1/conversations/analyze
func (h *AnalysisHandler) HandleConversation(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	if len(req.Messages) > maxConversationMessages {
		writeError(w, http.StatusBadRequest, "TOO_MANY_MESSAGES", "at most 200 messages per request")
		return
	}
	texts := make([]string, len(req.Messages))
	for i, m := range req.Messages {
		texts[i] = textValue(m)
	}
	id, conv := h.analyzer.AnalyzeConversation(r.Context(), texts, event.SourceConversation, "")
	writeJSON(w, http.StatusOK, conversationResponse{ID: id, ConversationAnalysis: conv})
}
