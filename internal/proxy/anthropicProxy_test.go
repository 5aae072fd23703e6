package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"model":"claude-sonnet-4-20250514","max_tokens":10,"messages":[{"role":"user","content":"hi"}]}`

func newProxy(url string, key string) *AnthropicProxy {
	return NewAnthropicProxy(config.Settings{AnthropicAPIURL: url, AnthropicAPIKey: key}, http.DefaultClient)
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestProxy_ForwardsVerbatim(t *testing.T) {
	var gotBody, gotKey, gotVersion, gotType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		gotType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"id":"msg_1","content":[{"type":"text","text":"hello"}]}`)
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/anthropic/messages", strings.NewReader(payload))
	req.Header.Set("x-api-key", "client-should-not-win")
	newProxy(upstream.URL, "server-key").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, "server-key", gotKey)
	assert.Equal(t, config.DefaultAnthropicVersion, gotVersion)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"id":"msg_1","content":[{"type":"text","text":"hello"}]}`, rec.Body.String())
}

func TestProxy_ForwardsUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	newProxy(upstream.URL, "k").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))

	assert.Equal(t, 529, rec.Code)
	assert.Contains(t, rec.Body.String(), "overloaded_error")
}

func TestProxy_WrapsNonJSONBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "upstream connect error")
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	newProxy(upstream.URL, "k").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "upstream connect error", decodeMessage(t, rec))
}

func TestProxy_MissingKey(t *testing.T) {
	rec := httptest.NewRecorder()
	newProxy("http://127.0.0.1:1", "").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decodeMessage(t, rec))
}

func TestProxy_Unreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	rec := httptest.NewRecorder()
	newProxy(url, "k").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to reach Anthropic API", decodeMessage(t, rec))
}

func TestProxy_RejectsOtherMethods(t *testing.T) {
	rec := httptest.NewRecorder()
	newProxy("http://127.0.0.1:1", "k").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestProxy_BodyLimit(t *testing.T) {
	big := strings.Repeat("a", config.ProxyBodyLimit+1)
	rec := httptest.NewRecorder()
	newProxy("http://127.0.0.1:1", "k").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
