package tenderModel

import (
	"context"
	"strings"
	"time"
)

type IssueType string
type Severity string
type QuestionStatus string

const (
	Inconsistency         IssueType = "Inconsistency"
	MissingInformation    IssueType = "MissingInformation"
	Ambiguity             IssueType = "Ambiguity"
	Contradiction         IssueType = "Contradiction"
	CrossDocumentConflict IssueType = "CrossDocumentConflict"

	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"

	QuestionDraft     QuestionStatus = "draft"
	QuestionResponded QuestionStatus = "responded"

	SystemSubmitter = "System Generated"
)

var issueTypes = []IssueType{Inconsistency, MissingInformation, Ambiguity, Contradiction, CrossDocumentConflict}

// ParseIssueType accepts the canonical names as well as the spaced or hyphenated
// labels the model tends to echo back ("Missing Information", "Cross-Document Conflict").
func ParseIssueType(raw string) (IssueType, bool) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range issueTypes {
		if strings.ToLower(string(t)) == key {
			return t, true
		}
	}
	return "", false
}

func ParseSeverity(raw string) (Severity, bool) {
	switch s := Severity(strings.ToLower(strings.TrimSpace(raw))); s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return s, true
	}
	return "", false
}

type Document struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	SizeLabel  string    `json:"size"`
	MimeType   string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
	Text       string    `json:"-"`
}

// Issue is immutable once produced by the parser. Exactly one of SourceFile
// (single-document run) or SourceFiles (combined run) is set.
type Issue struct {
	Id                string    `json:"id"`
	Type              IssueType `json:"type"`
	Severity          Severity  `json:"severity"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	SuggestedQuestion string    `json:"suggested_question"`
	SourceFile        string    `json:"source_file,omitempty"`
	SourceFiles       string    `json:"source_files,omitempty"`
}

type Question struct {
	Id             string         `json:"id"`
	Text           string         `json:"text"`
	RelatedIssueId string         `json:"related_issue_id"`
	IssueType      IssueType      `json:"issue_type"`
	Status         QuestionStatus `json:"status"`
	SubmittedBy    string         `json:"submitted_by"`
	CreatedAt      time.Time      `json:"created_at"`
	AIResponse     *string        `json:"ai_response,omitempty"`
}

// Provenance names the document(s) an analysis run was fed.
type Provenance struct {
	SourceFile  string
	SourceFiles string
}

// AnalysisResult is either a validated batch (Err == nil) or a failure.
type AnalysisResult struct {
	Issues   []Issue
	Warnings []string
	Err      error
}

func (r AnalysisResult) Ok() bool { return r.Err == nil }

type AnswerResult struct {
	Answer string
	Err    error
}

func (r AnswerResult) Ok() bool { return r.Err == nil }

// SessionStore owns the four session collections: documents, selection, issues and questions.
type SessionStore interface {
	AddDocument(ctx context.Context, doc Document) Document
	RemoveDocument(ctx context.Context, id string) bool
	Documents(ctx context.Context) []Document
	Document(ctx context.Context, id string) (Document, bool)

	ToggleSelection(ctx context.Context, id string) bool
	IsSelected(ctx context.Context, id string) bool
	SelectedDocuments(ctx context.Context) []Document

	AddIssues(ctx context.Context, batch []Issue)
	Issues(ctx context.Context) []Issue
	Issue(ctx context.Context, id string) (Issue, bool)

	AddQuestionFromIssue(ctx context.Context, issueId string) (Question, bool)
	Questions(ctx context.Context) []Question
	Question(ctx context.Context, id string) (Question, bool)
	AttachResponse(ctx context.Context, questionId string, text string) bool
}
