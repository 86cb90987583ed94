package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sprite-ai/codepad/internal/model"
)

// Together completion endpoint defaults.
const (
	TogetherBaseURL = "https://api.together.xyz/v1"
	TogetherModel   = "codellama/CodeLlama-34b-Instruct-hf"
)

// codeFence stops generation at the end of a fenced block.
const codeFence = "```"

// TogetherCompleter calls a text-completion endpoint.
type TogetherCompleter struct {
	provider Provider
	client   *openai.Client
	http     *http.Client
	validate *validator.Validate
	log      *zap.Logger
	metrics  *Metrics
}

// NewTogetherCompleter creates a completion adapter. Empty BaseURL and
// Model fall back to the Together defaults.
func NewTogetherCompleter(p Provider, opts ...Option) *TogetherCompleter {
	if p.BaseURL == "" {
		p.BaseURL = TogetherBaseURL
	}
	if p.Model == "" {
		p.Model = TogetherModel
	}
	o := buildOptions(opts)
	return &TogetherCompleter{
		provider: p,
		client:   newClient(p, o.httpClient),
		http:     o.httpClient,
		validate: newValidator(o.maxCodeBytes),
		log:      o.logger.Named("together"),
		metrics:  o.metrics,
	}
}

// Complete sends the prompt verbatim and returns the first choice trimmed.
// Zero Temperature or MaxTokens use the model defaults.
func (c *TogetherCompleter) Complete(ctx context.Context, req model.CompletionRequest) (model.CompletionResponse, error) {
	start := time.Now()
	req = req.WithDefaults()

	if err := c.validate.Struct(req); err != nil {
		return model.CompletionResponse{}, c.fail(start, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.provider.timeout())
	defer cancel()

	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       c.provider.Model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
		Stop:        []string{codeFence},
	})
	if err != nil {
		return model.CompletionResponse{}, c.fail(start, err)
	}
	if len(resp.Choices) == 0 {
		return model.CompletionResponse{}, c.fail(start, errNoChoices)
	}

	elapsed := time.Since(start)
	c.metrics.observe(OpCompletion, "ok", elapsed)
	c.log.Debug("completion received",
		zap.String("model", c.provider.Model),
		zap.String("finish_reason", resp.Choices[0].FinishReason),
		zap.Duration("duration", elapsed),
	)

	return model.CompletionResponse{
		Completion: strings.TrimSpace(resp.Choices[0].Text),
		Language:   req.Language,
	}, nil
}

// Close releases idle connections.
func (c *TogetherCompleter) Close() {
	c.http.CloseIdleConnections()
}

func (c *TogetherCompleter) fail(start time.Time, err error) error {
	return fail(c.log, c.metrics, OpCompletion, ErrCompletionFailed, c.provider, start, err)
}
