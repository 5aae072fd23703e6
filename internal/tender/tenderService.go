package tender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/tender/llm"
	"github.com/akolanti/TenderAPI/internal/tender/parser"
	"github.com/akolanti/TenderAPI/internal/tender/prompt"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
)

/*
Service is the only thing the worker and the MCP tools talk to. It sequences
prompt building, the completion call and parsing for one run and records the
current step on the run it was handed:

	Idle -> Building -> AwaitingCompletion -> Parsing -> Done | Failed

It never touches the session store. Callers apply a successful result
themselves, so a failed run leaves the store exactly as it was.
*/
type Service interface {
	AnalyzeDocuments(ctx context.Context, run *jobModel.Job, docs []tenderModel.Document) tenderModel.AnalysisResult
	GenerateResponse(ctx context.Context, run *jobModel.Job, question tenderModel.Question) tenderModel.AnswerResult
}

var ErrNoDocuments = errors.New("no documents selected")

type service struct {
	llmProvider llm.Provider
	parser      *parser.Parser
	model       string
	timeout     time.Duration
	mode        parser.Mode
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(provider llm.Provider, p *parser.Parser, settings config.Settings) Service {
	timeout := settings.LLMTimeout
	if timeout <= 0 {
		timeout = config.DefaultLLMTimeout
	}
	mode := parser.Lenient
	if settings.ParserStrict {
		mode = parser.Strict
	}
	return &service{
		llmProvider: provider,
		parser:      p,
		model:       settings.LLMModel,
		timeout:     timeout,
		mode:        mode,
		logger:      logger_i.NewLogger("Tender Service :"),
	}
}

func (s *service) AnalyzeDocuments(ctx context.Context, run *jobModel.Job, docs []tenderModel.Document) tenderModel.AnalysisResult {
	run = ensureRun(run)
	log := s.logger.Trace(ctx).With("JobId", run.Id)
	run.CurrentStep = jobModel.Idle

	if len(docs) == 0 {
		return s.analysisFailed(run, log, prompt.MultiAnalysis, ErrNoDocuments)
	}

	p := s.executeBuildStep(log, run, func() prompt.Prompt {
		if len(docs) == 1 {
			return prompt.BuildSingleAnalysis(docs[0])
		}
		return prompt.BuildMultiAnalysis(docs)
	})

	reply, err := s.executeCompletionStep(ctx, log, run, p)
	if err != nil {
		return s.analysisFailed(run, log, p.UseCase, err)
	}

	parsed, err := s.executeParseIssuesStep(log, run, reply, p)
	if err != nil {
		return s.analysisFailed(run, log, p.UseCase, err)
	}

	warnings := parsed.Warnings
	if p.Truncated {
		warnings = append([]string{fmt.Sprintf("document text truncated to %d characters", len([]rune(p.EmbeddedText)))}, warnings...)
	}

	run.CurrentStep = jobModel.Done
	log.Info("Analysis complete", "issues", len(parsed.Issues), "dropped", parsed.Dropped, "documents", len(docs))
	return tenderModel.AnalysisResult{Issues: parsed.Issues, Warnings: warnings}
}

func (s *service) GenerateResponse(ctx context.Context, run *jobModel.Job, question tenderModel.Question) tenderModel.AnswerResult {
	run = ensureRun(run)
	log := s.logger.Trace(ctx).With("JobId", run.Id, "QuestionId", question.Id)
	run.CurrentStep = jobModel.Idle

	p := s.executeBuildStep(log, run, func() prompt.Prompt {
		return prompt.BuildQuestionResponse(question)
	})

	reply, err := s.executeCompletionStep(ctx, log, run, p)
	if err != nil {
		return s.answerFailed(run, log, err)
	}

	answer, err := s.executeParseAnswerStep(log, run, reply)
	if err != nil {
		return s.answerFailed(run, log, err)
	}

	run.CurrentStep = jobModel.Done
	return tenderModel.AnswerResult{Answer: answer}
}
