package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	// orchestrator steps, in order
	Idle               InternalStatus = "Idle"
	Building           InternalStatus = "Building"
	AwaitingCompletion InternalStatus = "AwaitingCompletion"
	Parsing            InternalStatus = "Parsing"
	Done               InternalStatus = "Done"
	Failed             InternalStatus = "Failed"

	JobTypeAnalyze JobType = "Analyze"
	JobTypeRespond JobType = "Respond"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
	InFlightKey string         `json:"in_flight_key,omitempty"`
}

type JobError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	DocumentIds []string `json:"document_ids,omitempty"`
	IssueIds    []string `json:"issue_ids,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`

	QuestionId string `json:"question_id,omitempty"`
	Answer     string `json:"answer,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
