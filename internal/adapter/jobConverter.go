package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/TenderAPI/internal/api"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("/status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Kind:    job.Error.Kind,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Step:   string(job.CurrentStep),
	}
	switch job.JobType {
	case jobModel.JobTypeAnalyze:
		result.Analysis = toAnalysisResponse(job.JobPayload)
	case jobModel.JobTypeRespond:
		result.Answer = &api.AnswerResponse{
			QuestionId: job.JobPayload.QuestionId,
			Answer:     job.JobPayload.Answer,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		Type:      string(job.JobType),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func toAnalysisResponse(payload jobModel.JobPayload) *api.AnalysisResponse {
	issueIds := payload.IssueIds
	if issueIds == nil {
		issueIds = []string{}
	}
	return &api.AnalysisResponse{
		DocumentIds: payload.DocumentIds,
		IssueCount:  len(issueIds),
		IssueIds:    issueIds,
		Warnings:    payload.Warnings,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
