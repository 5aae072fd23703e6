package handlers

import (
	"net/http"

	"github.com/akolanti/TenderAPI/internal/adapter"
	"github.com/akolanti/TenderAPI/internal/adapter/utils"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/job"
)

// Analyze godoc
// @Summary      Analyze the selection
// @Description  Queues one combined analysis run over the selected documents, in selection order, and returns the run id to poll.
// @Tags         Analysis
// @Produce      json
// @Success      202  {object}  api.InitJobResponse  "Run queued"
// @Failure      400  {object}  api.JobResponse      "No documents selected"
// @Failure      409  {object}  api.JobResponse      "An analysis is already running"
// @Router       /analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	selected := h.session.SelectedDocuments(r.Context())
	if len(selected) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "No documents selected")
		return
	}
	if !h.jobs.InFlight.TryAcquire(job.AnalyzeKey) {
		WriteErrorResponse(w, http.StatusConflict, "", "An analysis is already running")
		return
	}

	ids := make([]string, len(selected))
	for i, doc := range selected {
		ids[i] = doc.Id
	}
	newJob := job.NewAnalyzeJob(traceId(r.Context()), ids)
	h.jobs.Enqueue(r.Context(), newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.Id))
}

// RespondToQuestion godoc
// @Summary      Draft a response
// @Description  Queues response generation for a draft question and returns the run id to poll.
// @Tags         Questions
// @Produce      json
// @Param        id   path  string  true  "Question ID"
// @Success      202  {object}  api.InitJobResponse  "Run queued"
// @Failure      400  {object}  api.JobResponse      "Malformed id"
// @Failure      404  {object}  api.JobResponse      "Question not found"
// @Failure      409  {object}  api.JobResponse      "Already responded or a response is being generated"
// @Router       /questions/{id}/response [post]
func (h *Handler) RespondToQuestion(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id, ok := h.pathId(w, r, "id")
	if !ok {
		return
	}
	question, found := h.session.Question(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Question not found")
		return
	}
	if question.Status != tenderModel.QuestionDraft {
		WriteErrorResponse(w, http.StatusConflict, id, "Question already has a response")
		return
	}
	if !h.jobs.InFlight.TryAcquire(job.RespondKey(id)) {
		WriteErrorResponse(w, http.StatusConflict, id, "A response is already being generated")
		return
	}

	newJob := job.NewRespondJob(traceId(r.Context()), id)
	h.jobs.Enqueue(r.Context(), newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.Id))
}

// GetStatusHandler godoc
// @Summary      Get run status
// @Description  Retrieves the status, current step and outcome of an analysis or response run.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Run ID"
// @Success      200  {object}  api.JobResponse  "The current status of the run"
// @Failure      404  {object}  api.JobResponse  "Run not found"
// @Router       /status/{id} [get]
func (h *Handler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := h.jobs.GetJob(r.Context(), idString)
	h.logger.Trace(r.Context()).Debug("Get Status Request", "URL path", r.URL.Path, "found", isFound)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}
