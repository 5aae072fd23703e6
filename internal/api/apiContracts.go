package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"4b0c1f9e-9d1e-4c43-9a55-3f2f9a0f6c11"`
	Type      string            `json:"type,omitempty" example:"Analyze"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"502"`
	Kind    string `json:"kind,omitempty" example:"malformed_response"`
	Message string `json:"message" example:"failed to analyze documents: malformed model response: no JSON array in reply"`
	Retry   bool   `json:"can_retry" example:"true"`
}

type Result struct {
	Status   string            `json:"status" example:"COMPLETE"`
	Step     string            `json:"step,omitempty" example:"Done"`
	Analysis *AnalysisResponse `json:"analysis,omitempty"`
	Answer   *AnswerResponse   `json:"answer,omitempty"`
}

type AnalysisResponse struct {
	DocumentIds []string `json:"document_ids"`
	IssueCount  int      `json:"issue_count" example:"2"`
	IssueIds    []string `json:"issue_ids"`
	Warnings    []string `json:"warnings,omitempty"`
}

type AnswerResponse struct {
	QuestionId string `json:"question_id"`
	Answer     string `json:"answer,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type DocumentResponse struct {
	Id         string    `json:"id"`
	Name       string    `json:"name" example:"tender-specification.pdf"`
	Size       string    `json:"size" example:"182.40 KB"`
	Type       string    `json:"type" example:"application/pdf"`
	UploadedAt time.Time `json:"uploaded_at"`
	Selected   bool      `json:"selected"`
}

type UploadError struct {
	File    string `json:"file"`
	Kind    string `json:"kind" example:"extraction"`
	Message string `json:"message"`
}

type UploadResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Errors    []UploadError      `json:"errors,omitempty"`
}

type ToggleResponse struct {
	Id       string `json:"id"`
	Selected bool   `json:"selected"`
}

type IssueResponse struct {
	Id                string `json:"id"`
	Type              string `json:"type" example:"Ambiguity"`
	Severity          string `json:"severity" example:"high"`
	Description       string `json:"description"`
	Location          string `json:"location" example:"Section 3.2"`
	SuggestedQuestion string `json:"suggested_question"`
	SourceFile        string `json:"source_file,omitempty"`
	SourceFiles       string `json:"source_files,omitempty"`
}

type QuestionResponse struct {
	Id             string    `json:"id"`
	Text           string    `json:"text"`
	RelatedIssueId string    `json:"related_issue_id"`
	IssueType      string    `json:"issue_type"`
	Status         string    `json:"status" example:"draft"`
	SubmittedBy    string    `json:"submitted_by" example:"System Generated"`
	CreatedAt      time.Time `json:"created_at"`
	AIResponse     *string   `json:"ai_response,omitempty"`
}

// ProxyError is the body the proxy writes for its own failures and for
// upstream bodies that are not JSON.
type ProxyError struct {
	Message string `json:"message"`
}

// requests---------------------

// PathId is validated before any lookup so malformed ids never reach the store.
type PathId struct {
	Id string `validate:"required,uuid"`
}
