package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sprite-ai/codepad/internal/analysis"
	"github.com/sprite-ai/codepad/internal/model"
)

// Groq analysis endpoint defaults.
const (
	GroqBaseURL = "https://api.groq.com/v1"
	GroqModel   = "mixtral-8x7b-32768"
)

const (
	analysisTemperature = 0.3
	analysisInstruction = "You are a code analysis expert. Analyze the code for potential issues and provide suggestions for improvement."
)

// GroqAnalyzer calls a chat-completion endpoint and normalizes the reply.
type GroqAnalyzer struct {
	provider Provider
	client   *openai.Client
	http     *http.Client
	validate *validator.Validate
	log      *zap.Logger
	metrics  *Metrics
}

// NewGroqAnalyzer creates an analysis adapter. Empty BaseURL and Model fall
// back to the Groq defaults.
func NewGroqAnalyzer(p Provider, opts ...Option) *GroqAnalyzer {
	if p.BaseURL == "" {
		p.BaseURL = GroqBaseURL
	}
	if p.Model == "" {
		p.Model = GroqModel
	}
	o := buildOptions(opts)
	return &GroqAnalyzer{
		provider: p,
		client:   newClient(p, o.httpClient),
		http:     o.httpClient,
		validate: newValidator(o.maxCodeBytes),
		log:      o.logger.Named("groq"),
		metrics:  o.metrics,
	}
}

// Analyze sends the code for review. Code over the size guard fails before
// any network call.
func (a *GroqAnalyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResponse, error) {
	start := time.Now()

	if err := a.validate.Struct(req); err != nil {
		return model.AnalysisResponse{}, a.fail(start, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	ctx, cancel := context.WithTimeout(ctx, a.provider.timeout())
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.provider.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisInstruction},
			{Role: openai.ChatMessageRoleUser, Content: UserMessage(req)},
		},
		Temperature: analysisTemperature,
	})
	if err != nil {
		return model.AnalysisResponse{}, a.fail(start, err)
	}
	if len(resp.Choices) == 0 {
		return model.AnalysisResponse{}, a.fail(start, errNoChoices)
	}

	result := analysis.Normalize(resp.Choices[0].Message.Content)

	elapsed := time.Since(start)
	a.metrics.observe(OpAnalysis, "ok", elapsed)
	a.log.Debug("analysis received",
		zap.String("model", a.provider.Model),
		zap.Int("issues", len(result.Issues)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.Duration("duration", elapsed),
	)
	return *result, nil
}

// UserMessage is the chat prompt for an analysis request.
func UserMessage(req model.AnalysisRequest) string {
	return fmt.Sprintf("Analyze this %s code:\n\n%s", req.Language, req.Code)
}

// Close releases idle connections.
func (a *GroqAnalyzer) Close() {
	a.http.CloseIdleConnections()
}

func (a *GroqAnalyzer) fail(start time.Time, err error) error {
	return fail(a.log, a.metrics, OpAnalysis, ErrAnalysisFailed, a.provider, start, err)
}
