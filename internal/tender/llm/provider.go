package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
)

const RoleUser = "user"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the fixed envelope every provider receives.
type CompletionRequest struct {
	Model     string    `json:"model"`
	MaxTokens int64     `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

// Provider sends one request and returns the raw reply text. Implementations
// return *tenderModel.UpstreamError for non-2xx answers and *tenderModel.TransportError
// when the endpoint cannot be reached. They never retry.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func TransportFailure(err error) error {
	var transport *tenderModel.TransportError
	if errors.As(err, &transport) {
		return err
	}
	return &tenderModel.TransportError{Err: err}
}

// UpstreamMessage pulls a readable message out of a provider error body:
// {"error":{"message":...}} first, then {"message":...}, else the raw text.
func UpstreamMessage(raw string) string {
	var body struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err == nil {
		if body.Error != nil && body.Error.Message != "" {
			return body.Error.Message
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(raw)
}
