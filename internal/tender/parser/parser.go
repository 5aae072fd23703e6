package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/metrics"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Mode int

const (
	Lenient Mode = iota
	Strict
)

// rawIssue is one element of the model's JSON array before validation.
type rawIssue struct {
	Type              string `json:"type" validate:"required"`
	Severity          string `json:"severity" validate:"required"`
	Description       string `json:"description" validate:"required"`
	Location          string `json:"location" validate:"required"`
	SuggestedQuestion string `json:"suggestedQuestion" validate:"required"`
}

type ParseResult struct {
	Issues   []tenderModel.Issue
	Warnings []string
	Dropped  int
}

type Parser struct {
	validate *validator.Validate
	newId    func() string
	logger   *logger_i.Logger
}

func NewParser() *Parser {
	return &Parser{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newId:    uuid.NewString,
		logger:   logger_i.NewLogger("parser"),
	}
}

// WithIdSource swaps the id generator, mostly for tests.
func (p *Parser) WithIdSource(next func() string) *Parser {
	p.newId = next
	return p
}

// ParseIssues pulls the JSON array out of a free-text reply. The array is taken
// greedily from the first '[' to the last ']' so prose around it is ignored.
func (p *Parser) ParseIssues(reply string, provenance tenderModel.Provenance, mode Mode) (ParseResult, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return ParseResult{}, &tenderModel.MalformedResponseError{Reason: "no JSON array in reply"}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(reply[start:end+1]), &entries); err != nil {
		return ParseResult{}, &tenderModel.MalformedResponseError{Reason: "reply array is not valid JSON", Err: err}
	}

	var result ParseResult
	for i, entry := range entries {
		issue, err := p.decodeIssue(entry)
		if err != nil {
			if mode == Strict {
				return ParseResult{}, &tenderModel.MalformedResponseError{Reason: fmt.Sprintf("entry %d", i), Err: err}
			}
			p.logger.Warn("Dropping issue entry", "index", i, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d dropped: %v", i, err))
			result.Dropped++
			continue
		}
		issue.Id = p.newId()
		issue.SourceFile = provenance.SourceFile
		issue.SourceFiles = provenance.SourceFiles
		result.Issues = append(result.Issues, issue)
	}

	if result.Dropped > 0 {
		metrics.AddDroppedIssueEntries(result.Dropped)
	}
	metrics.AddIssuesProduced(len(result.Issues))
	return result, nil
}

func (p *Parser) decodeIssue(entry json.RawMessage) (tenderModel.Issue, error) {
	var raw rawIssue
	if err := json.Unmarshal(entry, &raw); err != nil {
		return tenderModel.Issue{}, err
	}
	if err := p.validate.Struct(raw); err != nil {
		return tenderModel.Issue{}, err
	}

	issueType, ok := tenderModel.ParseIssueType(raw.Type)
	if !ok {
		return tenderModel.Issue{}, fmt.Errorf("unknown issue type %q", raw.Type)
	}
	severity, ok := tenderModel.ParseSeverity(raw.Severity)
	if !ok {
		return tenderModel.Issue{}, fmt.Errorf("unknown severity %q", raw.Severity)
	}

	return tenderModel.Issue{
		Type:              issueType,
		Severity:          severity,
		Description:       raw.Description,
		Location:          raw.Location,
		SuggestedQuestion: raw.SuggestedQuestion,
	}, nil
}

// ParseAnswer returns the reply unchanged; only an empty reply is rejected.
func ParseAnswer(reply string) (string, error) {
	if strings.TrimSpace(reply) == "" {
		return "", &tenderModel.MalformedResponseError{Reason: "empty answer"}
	}
	return reply, nil
}
