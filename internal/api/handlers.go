// Package api provides HTTP handlers for the comment analysis API.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"mirrorscope-api/internal/analyzer"
	"mirrorscope-api/internal/extractor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AnalyzeRequestPayload is the body of POST /analyze-comment-full. Pointers let a missing
// field be told apart from an empty one.
type AnalyzeRequestPayload struct {
	URL     *string `json:"url"`
	Comment *string `json:"comment"`
}

// SummarizeRequestPayload is the body of POST /summarize.
type SummarizeRequestPayload struct {
	URL *string `json:"url"`
}

// SummarizeResponsePayload is the body returned by POST /summarize.
type SummarizeResponsePayload struct {
	Summary       string           `json:"summary"`
	SummaryStatus extractor.Status `json:"summary_status"`
	SourceType    string           `json:"source_type"`
}

// CommentAnalyzer is the part of analyzer.Analyzer the handlers depend on.
type CommentAnalyzer interface {
	Analyze(ctx context.Context, url, comment string) *analyzer.Response
	Summarize(ctx context.Context, url string) extractor.Summary
}

// AnalyzeHandler holds dependencies for the analysis endpoints.
type AnalyzeHandler struct {
	Analyzer CommentAnalyzer
}

// NewAnalyzeHandler creates a new AnalyzeHandler with its dependencies.
func NewAnalyzeHandler(a CommentAnalyzer) *AnalyzeHandler {
	return &AnalyzeHandler{Analyzer: a}
}

// HandleAnalyzeCommentFull serves POST /analyze-comment-full. Upstream failures are
// reported inside the body; the status is 200 whenever the request itself was valid.
func (h *AnalyzeHandler) HandleAnalyzeCommentFull(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var reqPayload AnalyzeRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&reqPayload); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}
	if reqPayload.URL == nil || reqPayload.Comment == nil {
		h.respondWithError(w, http.StatusBadRequest, "Both url and comment are required")
		return
	}

	slog.Info("Handling analyze request", "url", *reqPayload.URL, "comment_length", len(*reqPayload.Comment))
	resp := h.Analyzer.Analyze(r.Context(), *reqPayload.URL, *reqPayload.Comment)

	if r.Context().Err() != nil {
		slog.Warn("Context cancelled, not writing response", "path", r.URL.Path)
		return
	}
	h.respondWithJSON(w, resp)
}

// HandleSummarize serves POST /summarize.
func (h *AnalyzeHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var reqPayload SummarizeRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&reqPayload); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}
	if reqPayload.URL == nil {
		h.respondWithError(w, http.StatusBadRequest, "url is required")
		return
	}

	slog.Info("Handling summarize request", "url", *reqPayload.URL)
	summary := h.Analyzer.Summarize(r.Context(), *reqPayload.URL)

	if r.Context().Err() != nil {
		slog.Warn("Context cancelled, not writing response", "path", r.URL.Path)
		return
	}
	h.respondWithJSON(w, SummarizeResponsePayload{
		Summary:       summary.Text,
		SummaryStatus: summary.Status,
		SourceType:    summary.SourceType,
	})
}

func (h *AnalyzeHandler) respondWithJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func (h *AnalyzeHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("Error encoding error response", "error", err)
	}
}
