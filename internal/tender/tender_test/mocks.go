package tender_test

import (
	"context"

	"github.com/akolanti/TenderAPI/internal/tender/llm"
)

// MockProvider implements llm.Provider
type MockProvider struct {
	OnComplete func(ctx context.Context, req llm.CompletionRequest) (string, error)
	Requests   []llm.CompletionRequest
}

func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.OnComplete != nil {
		return m.OnComplete(ctx, req)
	}
	return "[]", nil
}

func (m *MockProvider) LastPrompt() string {
	if len(m.Requests) == 0 || len(m.Requests[0].Messages) == 0 {
		return ""
	}
	last := m.Requests[len(m.Requests)-1]
	return last.Messages[0].Content
}
