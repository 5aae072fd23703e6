package anthropicLLM

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/tender/llm"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type llmClient struct {
	client anthropic.Client
	logger *logger_i.Logger
}

// NewAnthropicClient builds the default provider. With ANTHROPIC_BASE_URL pointing at
// this service's own proxy the key can stay server-side and may be empty here.
func NewAnthropicClient(settings config.Settings, httpClient *http.Client) (llm.Provider, error) {
	if settings.AnthropicAPIKey == "" && settings.AnthropicBaseURL == "" {
		return nil, errors.New("ANTHROPIC_API_KEY or ANTHROPIC_BASE_URL must be set")
	}

	version := settings.AnthropicVersion
	if version == "" {
		version = config.DefaultAnthropicVersion
	}

	opts := []option.RequestOption{
		option.WithAPIKey(settings.AnthropicAPIKey),
		option.WithMaxRetries(0),
		option.WithHeader("anthropic-version", version),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if settings.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(settings.AnthropicBaseURL, "/")+"/"))
	}

	logger := logger_i.NewLogger("llm_anthropic")
	logger.Info("Anthropic client created")
	return &llmClient{
		client: anthropic.NewClient(opts...),
		logger: logger,
	}, nil
}

func (c *llmClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	log := c.logger.Trace(ctx)

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  messages,
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			log.Error("Anthropic returned an error", "status", apiErr.StatusCode)
			return "", &tenderModel.UpstreamError{Status: apiErr.StatusCode, Message: llm.UpstreamMessage(apiErr.RawJSON())}
		}
		log.Error("Anthropic unreachable", "error", err)
		return "", llm.TransportFailure(err)
	}

	var reply strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}
	log.Debug("Anthropic reply received", "stopReason", message.StopReason, "chars", reply.Len())
	return reply.String(), nil
}
