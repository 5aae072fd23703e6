package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/TenderAPI/internal/config"
)

// shared by the LLM providers and the proxy so upstream connections are reused
var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient returns a client on the shared transport; timeout 0 leaves deadlines to the caller's context.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
