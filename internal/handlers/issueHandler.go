package handlers

import (
	"net/http"

	"github.com/akolanti/TenderAPI/internal/adapter"
)

// ListIssues godoc
// @Summary      List issues
// @Description  Lists every issue found so far, oldest batch first.
// @Tags         Issues
// @Produce      json
// @Success      200  {array}  api.IssueResponse
// @Router       /issues [get]
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToIssueResponses(h.session.Issues(r.Context())))
}

// CreateQuestion godoc
// @Summary      Create a question from an issue
// @Description  Creates a draft clarification question from the issue's suggested question.
// @Tags         Questions
// @Produce      json
// @Param        id   path  string  true  "Issue ID"
// @Success      201  {object}  api.QuestionResponse
// @Failure      400  {object}  api.JobResponse  "Malformed id"
// @Failure      404  {object}  api.JobResponse  "Issue not found"
// @Router       /issues/{id}/questions [post]
func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id, ok := h.pathId(w, r, "id")
	if !ok {
		return
	}
	question, created := h.session.AddQuestionFromIssue(r.Context(), id)
	if !created {
		WriteErrorResponse(w, http.StatusNotFound, id, "Issue not found")
		return
	}
	writeJsonResponse(w, http.StatusCreated, adapter.ToQuestionResponse(question))
}

// ListQuestions godoc
// @Summary      List questions
// @Description  Lists clarification questions with their status and any drafted response.
// @Tags         Questions
// @Produce      json
// @Success      200  {array}  api.QuestionResponse
// @Router       /questions [get]
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQuestionResponses(h.session.Questions(r.Context())))
}
