package openaiLLM

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/tender/llm"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client openai.Client
	logger *logger_i.Logger
}

func NewOpenAIClient(apiKey string, httpClient *http.Client, baseURL string) (llm.Provider, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}

	logger := logger_i.NewLogger("llm_openai")
	logger.Info("OpenAI client created")
	return &llmClient{client: openai.NewClient(opts...), logger: logger}, nil
}

func (c *llmClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	log := c.logger.Trace(ctx)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.UserMessage(m.Content))
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(req.Model),
		MaxCompletionTokens: openai.Int(req.MaxTokens),
		Messages:            messages,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			log.Error("OpenAI returned an error", "status", apiErr.StatusCode)
			return "", &tenderModel.UpstreamError{Status: apiErr.StatusCode, Message: llm.UpstreamMessage(apiErr.RawJSON())}
		}
		log.Error("OpenAI unreachable", "error", err)
		return "", llm.TransportFailure(err)
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
