// Package api implements the HTTP API server for codepad.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sprite-ai/codepad/internal/config"
	"github.com/sprite-ai/codepad/internal/gateway"
	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/workspace"
)

// Server is the codepad HTTP API server.
type Server struct {
	addr   string
	mux    *http.ServeMux
	server *http.Server

	ai        workspace.AI
	log       *zap.Logger
	token     string
	editor    config.EditorSettings
	gatherer  prometheus.Gatherer
	wsMetrics *workspace.Metrics
	seed      bool
	maxBody   int64 // request body and WebSocket frame limit; 0 is unlimited
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithToken requires "Authorization: Bearer <token>" (or ?token= on the
// WebSocket) for AI operations.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithEditorSettings sets the settings served at /api/settings.
func WithEditorSettings(e config.EditorSettings) Option {
	return func(s *Server) { s.editor = e }
}

// WithRegistry registers server metrics with reg and serves it at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.gatherer = reg
		s.wsMetrics = workspace.NewMetrics(reg)
	}
}

// WithMaxCodeBytes sizes the request body and WebSocket frame limits for
// code of up to n bytes. n <= 0 removes the limits.
func WithMaxCodeBytes(n int) Option {
	return func(s *Server) { s.maxBody = bodyLimit(n) }
}

// bodyLimit leaves room for JSON escaping and the rest of the envelope.
func bodyLimit(codeBytes int) int64 {
	if codeBytes <= 0 {
		return 0
	}
	return 4*int64(codeBytes) + 4<<10
}

// WithEmptySessions starts WebSocket sessions without the sample files.
func WithEmptySessions() Option {
	return func(s *Server) { s.seed = false }
}

// New creates a new API server backed by ai.
func New(addr string, ai workspace.AI, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		ai:       ai,
		log:      zap.NewNop(),
		editor:   config.DefaultConfig().Editor,
		gatherer: prometheus.DefaultGatherer,
		seed:     true,
		maxBody:  bodyLimit(gateway.DefaultMaxCodeBytes),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/settings", s.handleSettings)
	s.mux.HandleFunc("POST /api/complete", s.handleComplete)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info("codepad API server listening", zap.String("addr", s.addr))
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// identify derives the caller's identity from the request. With no token
// configured every caller is the local user.
func (s *Server) identify(r *http.Request) model.Identity {
	if s.token == "" {
		return model.Identity{
			User:   &model.User{ID: "local", Name: "local"},
			Status: model.AuthAuthenticated,
		}
	}

	got := r.URL.Query().Get("token")
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		got = strings.TrimPrefix(h, "Bearer ")
	}
	if got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1 {
		return model.Identity{
			User:   &model.User{ID: "token", Name: "token"},
			Status: model.AuthAuthenticated,
		}
	}
	return model.Identity{Status: model.AuthUnauthenticated}
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.Warn("json encode error", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v, reading at most s.maxBody bytes.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	return json.NewDecoder(body).Decode(v)
}

// writeDecodeError answers a body readJSON could not decode.
func (s *Server) writeDecodeError(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
}
