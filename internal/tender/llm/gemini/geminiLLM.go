package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/tender/llm"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client *genai.Client
	logger *logger_i.Logger
}

// NewGeminiClient builds a provider on the Gemini API. baseURL is only set in tests.
func NewGeminiClient(ctx context.Context, apiKey string, httpClient *http.Client, baseURL string) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return nil, err
	}
	logger.Info("Gemini client created")
	return &llmClient{client: c, logger: logger}, nil
}

func (c *llmClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	log := c.logger.Trace(ctx)

	var contents []*genai.Content
	for _, m := range req.Messages {
		contents = append(contents, genai.Text(m.Content)...)
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			log.Error("Gemini returned an error", "status", apiErr.Code)
			return "", &tenderModel.UpstreamError{Status: apiErr.Code, Message: apiErr.Message}
		}
		log.Error("Gemini unreachable", "error", err)
		return "", llm.TransportFailure(err)
	}
	return result.Text(), nil
}
