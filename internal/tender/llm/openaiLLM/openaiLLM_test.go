package openaiLLM

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/tender/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_ReturnsFirstChoice(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Delivery is in week 12."},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	p, err := NewOpenAIClient("sk-test", http.DefaultClient, srv.URL)
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), llm.CompletionRequest{
		Model: "gpt-4o-mini", MaxTokens: 1000, Messages: []llm.Message{llm.UserMessage("when?")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Delivery is in week 12.", reply)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	p, err := NewOpenAIClient("sk-bad", http.DefaultClient, srv.URL)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), llm.CompletionRequest{
		Model: "gpt-4o-mini", MaxTokens: 10, Messages: []llm.Message{llm.UserMessage("hi")},
	})
	var upstream *tenderModel.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
	assert.Equal(t, "Incorrect API key provided", upstream.Message)
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", nil, "")
	assert.Error(t, err)
}
