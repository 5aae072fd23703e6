package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/akolanti/TenderAPI/internal/api"
	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
)

const versionHeader = "anthropic-version"

// AnthropicProxy forwards a raw messages payload to the provider with the
// server-side key attached, so browsers and other clients never hold it.
type AnthropicProxy struct {
	client  *http.Client
	apiURL  string
	apiKey  string
	version string
	logger  *logger_i.Logger
}

func NewAnthropicProxy(settings config.Settings, client *http.Client) *AnthropicProxy {
	apiURL := settings.AnthropicAPIURL
	if apiURL == "" {
		apiURL = config.AnthropicAPIURL
	}
	version := settings.AnthropicVersion
	if version == "" {
		version = config.DefaultAnthropicVersion
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &AnthropicProxy{
		client:  client,
		apiURL:  apiURL,
		apiKey:  settings.AnthropicAPIKey,
		version: version,
		logger:  logger_i.NewLogger("AnthropicProxy"),
	}
}

// ServeHTTP godoc
// @Summary      Anthropic messages proxy
// @Description  Forwards the request body unchanged to the Anthropic messages API and relays the status code. Bodies that are not JSON are wrapped as {"message": ...}.
// @Tags         Proxy
// @Accept       json
// @Produce      json
// @Success      200  {object}  object          "Provider reply, verbatim"
// @Failure      405  {object}  api.ProxyError  "Only POST is accepted"
// @Failure      413  {object}  api.ProxyError  "Body larger than 2MB"
// @Failure      500  {object}  api.ProxyError  "API key not configured"
// @Failure      502  {object}  api.ProxyError  "Provider unreachable"
// @Router       /api/anthropic/messages [post]
func (p *AnthropicProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := p.logger.Trace(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if p.apiKey == "" {
		log.Error("ANTHROPIC_API_KEY is not configured")
		writeMessage(w, http.StatusInternalServerError, "API key not configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.ProxyBodyLimit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		log.Error("Could not build upstream request", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Could not build upstream request")
		return
	}
	version := r.Header.Get(versionHeader)
	if version == "" {
		version = p.version
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("x-api-key", p.apiKey)
	upstreamReq.Header.Set(versionHeader, version)

	resp, err := p.client.Do(upstreamReq)
	if err != nil {
		log.Error("Failed to reach Anthropic API", "error", err)
		writeMessage(w, http.StatusBadGateway, "Failed to reach Anthropic API")
		return
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed reading Anthropic reply", "error", err)
		writeMessage(w, http.StatusBadGateway, "Failed to reach Anthropic API")
		return
	}

	log.Debug("Proxied request", "status", resp.StatusCode, "bytes", len(reply))
	if !json.Valid(reply) {
		writeMessage(w, resp.StatusCode, string(reply))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(reply)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ProxyError{Message: message})
}
