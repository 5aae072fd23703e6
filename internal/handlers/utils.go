package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/TenderAPI/internal/adapter"
	"github.com/akolanti/TenderAPI/internal/adapter/utils"
	"github.com/akolanti/TenderAPI/internal/api"
	"github.com/akolanti/TenderAPI/internal/config"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Trace(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func traceId(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

// pathId reads a chi url param and checks it is a uuid. It writes the 400 itself.
func (h *Handler) pathId(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	id := utils.GetChiURLParam(r, key)
	if err := h.validate.Struct(api.PathId{Id: id}); err != nil {
		logRH.Trace(r.Context()).Warn("Invalid path id", "key", key, "value", id)
		WriteErrorResponse(w, http.StatusBadRequest, id, "invalid "+key)
		return "", false
	}
	return id, true
}
