package job

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/tender"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrAlreadyResponded = errors.New("question already has a response")
	ErrUnknownJobType   = errors.New("unknown job type")
)

// Execute runs one job through the tender service and applies a successful
// result to the session. A failed run leaves the session untouched. The
// in-flight key of the run is released before returning.
func (s *Service) Execute(ctx context.Context, tenderService tender.Service, run *jobModel.Job) {
	defer s.InFlight.Release(run.InFlightKey)
	log := s.logger.Trace(ctx).With("jobId", run.Id, "jobType", run.JobType)

	var err error
	switch run.JobType {
	case jobModel.JobTypeAnalyze:
		err = s.executeAnalyze(ctx, tenderService, run)
	case jobModel.JobTypeRespond:
		err = s.executeRespond(ctx, tenderService, run)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownJobType, run.JobType)
	}

	run.EndTime = time.Now()
	if err != nil {
		log.Warn("Run failed", "error", err)
		run.Status = jobModel.JobStatusError
		if run.CurrentStep != jobModel.Failed {
			run.CurrentStep = jobModel.Failed
		}
		run.Error = toJobError(err)
		return
	}
	run.Status = jobModel.JobStatusComplete
}

func (s *Service) executeAnalyze(ctx context.Context, tenderService tender.Service, run *jobModel.Job) error {
	docs := make([]tenderModel.Document, 0, len(run.JobPayload.DocumentIds))
	for _, id := range run.JobPayload.DocumentIds {
		// documents removed after the run was queued are skipped
		if doc, ok := s.Session.Document(ctx, id); ok {
			docs = append(docs, doc)
		}
	}

	result := tenderService.AnalyzeDocuments(ctx, run, docs)
	if !result.Ok() {
		return result.Err
	}

	s.Session.AddIssues(ctx, result.Issues)
	run.JobPayload.IssueIds = make([]string, len(result.Issues))
	for i, issue := range result.Issues {
		run.JobPayload.IssueIds[i] = issue.Id
	}
	run.JobPayload.Warnings = result.Warnings
	return nil
}

func (s *Service) executeRespond(ctx context.Context, tenderService tender.Service, run *jobModel.Job) error {
	question, ok := s.Session.Question(ctx, run.JobPayload.QuestionId)
	if !ok {
		return ErrQuestionNotFound
	}
	if question.Status != tenderModel.QuestionDraft {
		return ErrAlreadyResponded
	}

	result := tenderService.GenerateResponse(ctx, run, question)
	if !result.Ok() {
		return result.Err
	}

	if !s.Session.AttachResponse(ctx, question.Id, result.Answer) {
		return ErrAlreadyResponded
	}
	run.JobPayload.Answer = result.Answer
	return nil
}

func toJobError(err error) jobModel.JobError {
	switch {
	case errors.Is(err, ErrQuestionNotFound):
		return jobModel.JobError{Code: http.StatusNotFound, Kind: "not_found", Message: err.Error()}
	case errors.Is(err, ErrAlreadyResponded):
		return jobModel.JobError{Code: http.StatusConflict, Kind: "conflict", Message: err.Error()}
	}

	kind := tenderModel.KindOf(err)
	jobErr := jobModel.JobError{Kind: string(kind), Message: err.Error(), Retry: true}
	switch kind {
	case tenderModel.KindExtraction:
		jobErr.Code = http.StatusUnprocessableEntity
		jobErr.Retry = false
	case tenderModel.KindTransport:
		jobErr.Code = http.StatusGatewayTimeout
	case tenderModel.KindUpstream, tenderModel.KindMalformedResponse:
		jobErr.Code = http.StatusBadGateway
	default:
		jobErr.Code = http.StatusInternalServerError
		if errors.Is(err, tender.ErrNoDocuments) {
			jobErr.Code = http.StatusBadRequest
			jobErr.Retry = false
		}
	}
	return jobErr
}
