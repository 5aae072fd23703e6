package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/TenderAPI/internal/metrics"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var mwLogger = logger_i.NewLogger("middleware")

// Wrap injects the trace id and records the response status per route.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(routeLabel(re.req), strconv.Itoa(rec.Status)).Inc()
	}
}

// WrapHandler is Wrap for plain http.Handlers such as the proxy and the MCP endpoint.
func WrapHandler(next http.Handler) http.HandlerFunc {
	return Wrap(next.ServeHTTP)
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = mwLogger
	re = injectTrace(re)
	if !re.badRequest.isBadRequest {
		re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	}
	return re
}

// routeLabel keeps metric cardinality bounded by using the chi pattern
// (/documents/{id}) instead of the concrete path.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
