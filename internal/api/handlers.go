package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sprite-ai/codepad/internal/gateway"
	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/workspace"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Settings ---

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.editor)
}

// --- Complete ---

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	if !s.identify(r).Authenticated() {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.CompletionRequest
	if err := s.readJSON(w, r, &req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.Language == "" {
		req.Language = model.DefaultLanguage
	}

	resp, err := s.ai.Complete(r.Context(), req)
	if err != nil {
		s.writeError(w, failureStatus(err), failureMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// --- Analyze ---

type analyzeResponse struct {
	model.AnalysisResponse
	Summary     string `json:"summary"`
	MaxSeverity string `json:"max_severity"`
}

func newAnalyzeResponse(r model.AnalysisResponse) analyzeResponse {
	return analyzeResponse{
		AnalysisResponse: r,
		Summary:          r.Summary(),
		MaxSeverity:      r.MaxSeverity().String(),
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.identify(r).Authenticated() {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.AnalysisRequest
	if err := s.readJSON(w, r, &req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		s.writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	if req.Language == "" {
		req.Language = model.DefaultLanguage
	}

	resp, err := s.ai.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, failureStatus(err), failureMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, newAnalyzeResponse(resp))
}

// failureStatus maps an AI call error to an HTTP status.
func failureStatus(err error) int {
	switch {
	case errors.Is(err, gateway.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, workspace.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

// failureMessage returns the client-facing text for err. Provider failures
// collapse to their kind so nothing from upstream is echoed.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, gateway.ErrCompletionFailed):
		return gateway.ErrCompletionFailed.Error()
	case errors.Is(err, gateway.ErrAnalysisFailed):
		return gateway.ErrAnalysisFailed.Error()
	case errors.Is(err, workspace.ErrStale),
		errors.Is(err, workspace.ErrEmptyInput),
		errors.Is(err, workspace.ErrNoActiveFile),
		errors.Is(err, workspace.ErrUnauthenticated):
		return err.Error()
	default:
		return "internal error"
	}
}
