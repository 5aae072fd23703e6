package mcpServer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/TenderAPI/internal/adapter"
	"github.com/akolanti/TenderAPI/internal/adapter/utils"
	"github.com/akolanti/TenderAPI/internal/api"
	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/job"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	ErrNothingSelected = errors.New("no documents selected")
	ErrAnalysisBusy    = errors.New("an analysis is already running")
	ErrIssueNotFound   = errors.New("issue not found")
	ErrResponseBusy    = errors.New("a response is already being generated")
)

type EmptyInput struct{}

// Document and Question mirror the HTTP shapes with timestamps as RFC 3339 strings.
type Document struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Size       string `json:"size"`
	UploadedAt string `json:"uploaded_at"`
	Selected   bool   `json:"selected"`
}

type Question struct {
	Id             string `json:"id"`
	Text           string `json:"text"`
	RelatedIssueId string `json:"related_issue_id"`
	IssueType      string `json:"issue_type"`
	Status         string `json:"status" jsonschema:"draft or responded"`
	SubmittedBy    string `json:"submitted_by"`
	CreatedAt      string `json:"created_at"`
	AIResponse     string `json:"ai_response,omitempty"`
}

type DocumentsOutput struct {
	Documents []Document `json:"documents" jsonschema:"Uploaded documents in upload order"`
}

type AnalyzeOutput struct {
	JobId    string              `json:"job_id" jsonschema:"Run id, also visible on /status/{id}"`
	Issues   []api.IssueResponse `json:"issues" jsonschema:"Issues added by this run"`
	Warnings []string            `json:"warnings,omitempty" jsonschema:"Entries the parser dropped and truncation notices"`
}

type IssuesOutput struct {
	Issues []api.IssueResponse `json:"issues" jsonschema:"All issues, oldest batch first"`
}

type CreateQuestionInput struct {
	IssueId string `json:"issue_id" jsonschema:"Id of the issue to turn into a question"`
}

type DraftResponseInput struct {
	QuestionId string `json:"question_id" jsonschema:"Id of a draft question"`
}

type QuestionOutput struct {
	Question Question `json:"question" jsonschema:"The question after the call"`
}

func (t *Tools) listDocuments(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, DocumentsOutput, error) {
	docs := t.jobs.Session.Documents(ctx)
	out := DocumentsOutput{Documents: make([]Document, len(docs))}
	for i, doc := range docs {
		out.Documents[i] = Document{
			Id:         doc.Id,
			Name:       doc.Name,
			Size:       doc.SizeLabel,
			UploadedAt: doc.UploadedAt.Format(time.RFC3339),
			Selected:   t.jobs.Session.IsSelected(ctx, doc.Id),
		}
	}
	return nil, out, nil
}

func (t *Tools) analyzeSelected(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	selected := t.jobs.Session.SelectedDocuments(ctx)
	if len(selected) == 0 {
		return nil, AnalyzeOutput{}, ErrNothingSelected
	}
	if !t.jobs.InFlight.TryAcquire(job.AnalyzeKey) {
		return nil, AnalyzeOutput{}, ErrAnalysisBusy
	}

	ids := make([]string, len(selected))
	for i, doc := range selected {
		ids[i] = doc.Id
	}
	run, ctx := t.newRun(ctx, func(trace string) jobModel.Job { return job.NewAnalyzeJob(trace, ids) })
	if err := t.runSync(ctx, &run); err != nil {
		return nil, AnalyzeOutput{}, err
	}

	issues := make([]tenderModel.Issue, 0, len(run.JobPayload.IssueIds))
	for _, id := range run.JobPayload.IssueIds {
		if issue, ok := t.jobs.Session.Issue(ctx, id); ok {
			issues = append(issues, issue)
		}
	}
	return nil, AnalyzeOutput{
		JobId:    run.Id,
		Issues:   adapter.ToIssueResponses(issues),
		Warnings: run.JobPayload.Warnings,
	}, nil
}

func (t *Tools) listIssues(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, IssuesOutput, error) {
	return nil, IssuesOutput{Issues: adapter.ToIssueResponses(t.jobs.Session.Issues(ctx))}, nil
}

func (t *Tools) createQuestion(ctx context.Context, req *mcp.CallToolRequest, input CreateQuestionInput) (*mcp.CallToolResult, QuestionOutput, error) {
	question, ok := t.jobs.Session.AddQuestionFromIssue(ctx, input.IssueId)
	if !ok {
		return nil, QuestionOutput{}, fmt.Errorf("%w: %s", ErrIssueNotFound, input.IssueId)
	}
	return nil, QuestionOutput{Question: toQuestion(question)}, nil
}

func (t *Tools) draftResponse(ctx context.Context, req *mcp.CallToolRequest, input DraftResponseInput) (*mcp.CallToolResult, QuestionOutput, error) {
	question, ok := t.jobs.Session.Question(ctx, input.QuestionId)
	if !ok {
		return nil, QuestionOutput{}, fmt.Errorf("%w: %s", job.ErrQuestionNotFound, input.QuestionId)
	}
	if question.Status != tenderModel.QuestionDraft {
		return nil, QuestionOutput{}, job.ErrAlreadyResponded
	}
	if !t.jobs.InFlight.TryAcquire(job.RespondKey(question.Id)) {
		return nil, QuestionOutput{}, ErrResponseBusy
	}

	run, ctx := t.newRun(ctx, func(trace string) jobModel.Job { return job.NewRespondJob(trace, question.Id) })
	if err := t.runSync(ctx, &run); err != nil {
		return nil, QuestionOutput{}, err
	}

	updated, _ := t.jobs.Session.Question(ctx, question.Id)
	return nil, QuestionOutput{Question: toQuestion(updated)}, nil
}

func toQuestion(q tenderModel.Question) Question {
	out := Question{
		Id:             q.Id,
		Text:           q.Text,
		RelatedIssueId: q.RelatedIssueId,
		IssueType:      string(q.IssueType),
		Status:         string(q.Status),
		SubmittedBy:    q.SubmittedBy,
		CreatedAt:      q.CreatedAt.Format(time.RFC3339),
	}
	if q.AIResponse != nil {
		out.AIResponse = *q.AIResponse
	}
	return out
}

func (t *Tools) newRun(ctx context.Context, build func(trace string) jobModel.Job) (jobModel.Job, context.Context) {
	trace := utils.GetNewUUID()
	return build(trace), context.WithValue(ctx, config.TRACE_ID_KEY, trace)
}

// runSync executes a run in the caller's goroutine and records it in the job
// store so it can be polled like a queued run.
func (t *Tools) runSync(ctx context.Context, run *jobModel.Job) error {
	log := t.logger.Trace(ctx).With("jobId", run.Id, "jobType", run.JobType)

	run.Status = jobModel.JobStatusRunning
	t.save(ctx, *run)

	t.jobs.Execute(ctx, t.tender, run)
	t.save(context.WithoutCancel(ctx), *run)

	if run.Status == jobModel.JobStatusError {
		log.Warn("MCP run failed", "kind", run.Error.Kind, "code", run.Error.Code)
		return fmt.Errorf("%s (%s)", run.Error.Message, run.Error.Kind)
	}
	log.Info("MCP run complete")
	return nil
}

func (t *Tools) save(ctx context.Context, run jobModel.Job) {
	if t.jobs.JobStore == nil {
		return
	}
	if err := t.jobs.JobStore.SaveJob(ctx, run); err != nil {
		t.logger.Trace(ctx).Error("Failed to save run", "jobId", run.Id, "error", err)
	}
}
