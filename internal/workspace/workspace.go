// Package workspace ties a session store to the AI gateway for one editor.
//
// Every AI call works on a snapshot of the active file taken when the call
// starts. Calls are numbered per operation kind and a response is kept only
// if no newer call of the same kind was issued while it was in flight.
package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sprite-ai/codepad/internal/gateway"
	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/session"
)

var (
	// ErrEmptyInput is returned for a blank prompt or blank code. Nothing is sent.
	ErrEmptyInput = errors.New("nothing to send")

	// ErrNoActiveFile is returned by Analyze when no file is selected.
	ErrNoActiveFile = errors.New("no active file")

	// ErrStale is returned when a newer call of the same kind was issued
	// before this one finished. The result is dropped.
	ErrStale = errors.New("superseded by a newer request")

	// ErrUnauthenticated is returned when the identity may not use AI operations.
	ErrUnauthenticated = errors.New("not authenticated")
)

// AI is the pair of provider capabilities a workspace needs.
type AI interface {
	gateway.Completer
	gateway.Analyzer
}

// CompletionResult is a completion tied to the request that produced it.
type CompletionResult struct {
	model.CompletionResponse
	FileID string `json:"file_id"`
	Seq    uint64 `json:"seq"`
}

// AnalysisResult is an analysis tied to the file snapshot it examined.
type AnalysisResult struct {
	model.AnalysisResponse
	FileID string `json:"file_id"`
	Seq    uint64 `json:"seq"`
}

// Workspace drives one session store and its AI calls.
type Workspace struct {
	store    *session.Store
	ai       AI
	seq      *gateway.Sequencer
	log      *zap.Logger
	metrics  *Metrics
	identity model.Identity

	mu             sync.Mutex
	lastCompletion *CompletionResult
	lastAnalysis   *AnalysisResult
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) { w.log = l }
}

// WithMetrics records dropped responses.
func WithMetrics(m *Metrics) Option {
	return func(w *Workspace) { w.metrics = m }
}

// WithIdentity sets who is editing. The default is an authenticated
// anonymous identity.
func WithIdentity(id model.Identity) Option {
	return func(w *Workspace) { w.identity = id }
}

// New returns a Workspace over store and ai.
func New(store *session.Store, ai AI, opts ...Option) *Workspace {
	w := &Workspace{
		store:    store,
		ai:       ai,
		seq:      gateway.NewSequencer(),
		log:      zap.NewNop(),
		identity: model.Identity{Status: model.AuthAuthenticated},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Store returns the underlying session store.
func (w *Workspace) Store() *session.Store {
	return w.store
}

// Identity returns who is editing.
func (w *Workspace) Identity() model.Identity {
	return w.identity
}

// Complete asks for a completion of prompt in the active file's language.
// With no active file the default language is used.
func (w *Workspace) Complete(ctx context.Context, prompt string) (CompletionResult, error) {
	if !w.identity.Authenticated() {
		return CompletionResult{}, ErrUnauthenticated
	}
	if strings.TrimSpace(prompt) == "" {
		return CompletionResult{}, ErrEmptyInput
	}

	language := model.DefaultLanguage
	file, ok := w.store.Active()
	if ok {
		language = file.Language
	}

	seq := w.seq.Next(gateway.OpCompletion)
	resp, err := w.ai.Complete(ctx, model.CompletionRequest{
		Prompt:   prompt,
		Language: language,
	})
	res := CompletionResult{CompletionResponse: resp, FileID: file.ID, Seq: seq}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.seq.IsLatest(gateway.OpCompletion, seq) {
		w.dropStale(gateway.OpCompletion, seq, err)
		return res, ErrStale
	}
	if err != nil {
		return res, err
	}
	w.lastCompletion = &res
	return res, nil
}

// Analyze sends the active file's content for analysis. The result replaces
// any earlier analysis.
func (w *Workspace) Analyze(ctx context.Context) (AnalysisResult, error) {
	if !w.identity.Authenticated() {
		return AnalysisResult{}, ErrUnauthenticated
	}
	file, ok := w.store.Active()
	if !ok {
		return AnalysisResult{}, ErrNoActiveFile
	}
	if strings.TrimSpace(file.Content) == "" {
		return AnalysisResult{}, ErrEmptyInput
	}

	seq := w.seq.Next(gateway.OpAnalysis)
	resp, err := w.ai.Analyze(ctx, model.AnalysisRequest{
		Code:     file.Content,
		Language: file.Language,
	})
	res := AnalysisResult{AnalysisResponse: resp, FileID: file.ID, Seq: seq}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.seq.IsLatest(gateway.OpAnalysis, seq) {
		w.dropStale(gateway.OpAnalysis, seq, err)
		return res, ErrStale
	}
	if err != nil {
		return res, err
	}
	w.lastAnalysis = &res
	return res, nil
}

// LastCompletion returns the current completion, if any.
func (w *Workspace) LastCompletion() (CompletionResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lastCompletion == nil {
		return CompletionResult{}, false
	}
	return *w.lastCompletion, true
}

// LastAnalysis returns the current analysis, if any.
func (w *Workspace) LastAnalysis() (AnalysisResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lastAnalysis == nil {
		return AnalysisResult{}, false
	}
	return *w.lastAnalysis, true
}

// ApplyCompletion appends the current completion to the active file and
// clears it. It reports whether anything was applied.
func (w *Workspace) ApplyCompletion() bool {
	w.mu.Lock()
	c := w.lastCompletion
	w.lastCompletion = nil
	w.mu.Unlock()

	if c == nil || c.Completion == "" {
		return false
	}
	if _, ok := w.store.Active(); !ok {
		return false
	}
	w.store.ApplySuggestion(c.Completion)
	return true
}

// ApplyAnalysisSuggestion applies suggestion i of the current analysis.
// It is inserted at its line when the analysed file is still active and
// appended otherwise.
func (w *Workspace) ApplyAnalysisSuggestion(i int) bool {
	w.mu.Lock()
	a := w.lastAnalysis
	w.mu.Unlock()

	if a == nil || i < 0 || i >= len(a.Suggestions) {
		return false
	}
	active, ok := w.store.Active()
	if !ok {
		return false
	}

	sg := a.Suggestions[i]
	if active.ID == a.FileID {
		w.store.ApplySuggestionAt(sg)
	} else {
		text := sg.Replacement
		if text == "" {
			text = sg.Message
		}
		w.store.ApplySuggestion(text)
	}
	return true
}

// dropStale records a discarded response. Caller holds w.mu.
func (w *Workspace) dropStale(op string, seq uint64, err error) {
	w.metrics.stale(op)
	w.log.Debug("dropping stale response",
		zap.String("op", op),
		zap.Uint64("seq", seq),
		zap.Uint64("latest", w.seq.Latest(op)),
		zap.NamedError("call_error", err),
	)
}
