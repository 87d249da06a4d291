package refine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"noterefiner/internal/config"
	"noterefiner/internal/model"
)

const defaultMaxTokens = 2048

// Usage is the token accounting returned with a refinement.
type Usage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

// Anthropic refines notes with the Anthropic Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *zap.Logger
}

// NewAnthropic builds a refiner from config. Extra request options are appended
// after the defaults, so tests can point the client at a fake server.
func NewAnthropic(cfg config.RefinerConfig, log *zap.Logger, opts ...option.RequestOption) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}

	return &Anthropic{
		client:    anthropic.NewClient(append(base, opts...)...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		log:       log,
	}, nil
}

var _ Refiner = (*Anthropic)(nil)

// Refine sends the note as the single user message with the mode's system prompt.
func (a *Anthropic) Refine(ctx context.Context, note string, mode model.Mode) (string, error) {
	text, _, err := a.RefineWithUsage(ctx, note, mode)
	return text, err
}

// RefineWithUsage is Refine plus token accounting.
func (a *Anthropic) RefineWithUsage(ctx context.Context, note string, mode model.Mode) (string, Usage, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt(mode), CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(note)),
		},
	})
	if err != nil {
		a.log.Error("anthropic request failed", zap.String("mode", string(mode)), zap.Error(err))
		return "", Usage{}, fmt.Errorf("anthropic api error: %w", err)
	}

	usage := Usage{
		InputTokens:              message.Usage.InputTokens,
		OutputTokens:             message.Usage.OutputTokens,
		CacheCreationInputTokens: message.Usage.CacheCreationInputTokens,
		CacheReadInputTokens:     message.Usage.CacheReadInputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			a.log.Debug("anthropic response",
				zap.String("mode", string(mode)),
				zap.Int("size", len(block.Text)),
				zap.Int64("tokens_in", usage.InputTokens),
				zap.Int64("tokens_out", usage.OutputTokens),
				zap.Int64("cache_read", usage.CacheReadInputTokens),
			)
			return block.Text, usage, nil
		}
	}
	return "", usage, ErrEmptyOutput
}
