package adapter

import (
	"github.com/akolanti/TenderAPI/internal/api"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
)

func ToDocumentResponse(doc tenderModel.Document, selected bool) api.DocumentResponse {
	return api.DocumentResponse{
		Id:         doc.Id,
		Name:       doc.Name,
		Size:       doc.SizeLabel,
		Type:       doc.MimeType,
		UploadedAt: doc.UploadedAt,
		Selected:   selected,
	}
}

func ToIssueResponses(issues []tenderModel.Issue) []api.IssueResponse {
	result := make([]api.IssueResponse, len(issues))
	for i, issue := range issues {
		result[i] = api.IssueResponse{
			Id:                issue.Id,
			Type:              string(issue.Type),
			Severity:          string(issue.Severity),
			Description:       issue.Description,
			Location:          issue.Location,
			SuggestedQuestion: issue.SuggestedQuestion,
			SourceFile:        issue.SourceFile,
			SourceFiles:       issue.SourceFiles,
		}
	}
	return result
}

func ToQuestionResponse(q tenderModel.Question) api.QuestionResponse {
	return api.QuestionResponse{
		Id:             q.Id,
		Text:           q.Text,
		RelatedIssueId: q.RelatedIssueId,
		IssueType:      string(q.IssueType),
		Status:         string(q.Status),
		SubmittedBy:    q.SubmittedBy,
		CreatedAt:      q.CreatedAt,
		AIResponse:     q.AIResponse,
	}
}

func ToQuestionResponses(questions []tenderModel.Question) []api.QuestionResponse {
	result := make([]api.QuestionResponse, len(questions))
	for i, q := range questions {
		result[i] = ToQuestionResponse(q)
	}
	return result
}
