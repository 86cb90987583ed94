// Package gateway adapts the editor's completion and analysis requests to
// the two AI providers behind them.
//
// Adapters never retry and never return provider error bodies: every
// failure is a *CallError whose Kind is ErrCompletionFailed or
// ErrAnalysisFailed, with details sent to the logger.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sprite-ai/codepad/internal/model"
)

// Operation kinds, shared with the Sequencer and metrics labels.
const (
	OpCompletion = "completion"
	OpAnalysis   = "analysis"
)

// DefaultTimeout bounds a provider call when none is configured.
const DefaultTimeout = 30 * time.Second

// Completer continues a prompt.
type Completer interface {
	Complete(ctx context.Context, req model.CompletionRequest) (model.CompletionResponse, error)
}

// Analyzer reviews code and returns position-anchored diagnostics.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResponse, error)
}

// Provider describes one OpenAI-compatible endpoint.
type Provider struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

func (p Provider) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

type options struct {
	logger       *zap.Logger
	metrics      *Metrics
	httpClient   *http.Client
	maxCodeBytes int
}

// Option configures an adapter.
type Option func(*options)

// WithLogger sets the logger for provider failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records call outcomes.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithHTTPClient replaces the HTTP client. Its Timeout is left alone; the
// per-call deadline comes from Provider.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithMaxCodeBytes sets the analysis size guard. Zero or less disables it.
func WithMaxCodeBytes(n int) Option {
	return func(o *options) { o.maxCodeBytes = n }
}

func buildOptions(opts []Option) options {
	o := options{
		logger:       zap.NewNop(),
		maxCodeBytes: DefaultMaxCodeBytes,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	return o
}

func newClient(p Provider, hc *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(p.BaseURL, "/")
	}
	cfg.HTTPClient = hc
	return openai.NewClientWithConfig(cfg)
}

// Gateway bundles a Completer and an Analyzer for the editor shells.
type Gateway struct {
	Completer
	Analyzer
}

// New builds a Gateway with the Together completion adapter and the Groq
// analysis adapter. Both share the given options.
func New(completion, analysis Provider, opts ...Option) *Gateway {
	return &Gateway{
		Completer: NewTogetherCompleter(completion, opts...),
		Analyzer:  NewGroqAnalyzer(analysis, opts...),
	}
}

// Close releases idle provider connections.
func (g *Gateway) Close() {
	for _, v := range []any{g.Completer, g.Analyzer} {
		if c, ok := v.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

// fail logs the underlying error and returns the uniform CallError.
func fail(log *zap.Logger, m *Metrics, op string, kind error, p Provider, start time.Time, err error) *CallError {
	reason, status := classify(err)
	elapsed := time.Since(start)
	m.observe(op, reason, elapsed)

	log.Error("provider call failed",
		zap.String("op", op),
		zap.String("model", p.Model),
		zap.String("base_url", p.BaseURL),
		zap.String("reason", reason),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
		zap.Error(err),
	)
	return &CallError{Op: op, Kind: kind, Reason: reason, Status: status}
}

var errNoChoices = errors.New("provider returned no choices")

func classify(err error) (reason string, status int) {
	var (
		apiErr    *openai.APIError
		reqErr    *openai.RequestError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return reasonInvalid, 0
	case errors.Is(err, errNoChoices):
		return reasonEmpty, 0
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout, 0
	case errors.Is(err, context.Canceled):
		return reasonCanceled, 0
	case errors.As(err, &apiErr):
		return reasonStatus, apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		return reasonStatus, reqErr.HTTPStatusCode
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return reasonMalformed, 0
	default:
		return reasonNetwork, 0
	}
}
