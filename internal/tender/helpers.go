package tender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/metrics"
	"github.com/akolanti/TenderAPI/internal/tender/llm"
	"github.com/akolanti/TenderAPI/internal/tender/parser"
	"github.com/akolanti/TenderAPI/internal/tender/prompt"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
)

func ensureRun(run *jobModel.Job) *jobModel.Job {
	if run == nil {
		return &jobModel.Job{}
	}
	return run
}

func logStep(run *jobModel.Job, step jobModel.InternalStatus, log *logger_i.Logger) {
	run.CurrentStep = step
	log.Debug("Run step", "Current Status", run.CurrentStep)
}

func (s *service) analysisFailed(run *jobModel.Job, log *logger_i.Logger, useCase prompt.UseCase, err error) tenderModel.AnalysisResult {
	s.recordFailure(run, log, useCase, err)
	return tenderModel.AnalysisResult{Err: fmt.Errorf("failed to analyze documents: %w", err)}
}

func (s *service) answerFailed(run *jobModel.Job, log *logger_i.Logger, err error) tenderModel.AnswerResult {
	s.recordFailure(run, log, prompt.QuestionResponse, err)
	return tenderModel.AnswerResult{Err: fmt.Errorf("failed to generate response: %w", err)}
}

func (s *service) recordFailure(run *jobModel.Job, log *logger_i.Logger, useCase prompt.UseCase, err error) {
	kind := tenderModel.KindOf(err)
	log.Error("Run failed", "step", run.CurrentStep, "kind", kind, "error", err)
	metrics.CaptureRunFailure(string(useCase), string(kind))
	run.CurrentStep = jobModel.Failed
}

func (s *service) executeBuildStep(log *logger_i.Logger, run *jobModel.Job, build func() prompt.Prompt) prompt.Prompt {
	logStep(run, jobModel.Building, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("prompt_build", time.Since(start)) }()

	p := build()
	if p.Truncated {
		log.Warn("Prompt text truncated", "useCase", p.UseCase)
	}
	return p
}

// executeCompletionStep is the only step that waits on the network. It runs
// under its own deadline and a missed deadline is reported as a transport failure.
func (s *service) executeCompletionStep(ctx context.Context, log *logger_i.Logger, run *jobModel.Job, p prompt.Prompt) (string, error) {
	logStep(run, jobModel.AwaitingCompletion, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_completion", time.Since(start)) }()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.llmProvider.Complete(callCtx, llm.CompletionRequest{
		Model:     s.model,
		MaxTokens: p.MaxTokens,
		Messages:  []llm.Message{llm.UserMessage(p.Text)},
	})
	if err == nil {
		return reply, nil
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return "", &tenderModel.TransportError{Err: fmt.Errorf("no reply within %s: %w", s.timeout, context.DeadlineExceeded)}
	}
	if tenderModel.KindOf(err) == tenderModel.KindInternal {
		return "", llm.TransportFailure(err)
	}
	return "", err
}

func (s *service) executeParseIssuesStep(log *logger_i.Logger, run *jobModel.Job, reply string, p prompt.Prompt) (parser.ParseResult, error) {
	logStep(run, jobModel.Parsing, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("parse_issues", time.Since(start)) }()

	return s.parser.ParseIssues(reply, p.Provenance, s.mode)
}

func (s *service) executeParseAnswerStep(log *logger_i.Logger, run *jobModel.Job, reply string) (string, error) {
	logStep(run, jobModel.Parsing, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("parse_answer", time.Since(start)) }()

	return parser.ParseAnswer(reply)
}
