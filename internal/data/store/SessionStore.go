package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/google/uuid"
)

// InMemorySessionStore keeps the documents, selection, issues and questions of
// one session. Each collection has its own lock. The selection lock is always
// taken after the document lock when both are needed.
type InMemorySessionStore struct {
	docMutex  *sync.RWMutex
	docOrder  []string
	documents map[string]tenderModel.Document

	selectionMutex *sync.RWMutex
	selection      []string

	issueMutex *sync.RWMutex
	issues     []tenderModel.Issue

	questionMutex *sync.RWMutex
	questions     []tenderModel.Question

	newId  func() string
	now    func() time.Time
	logger *logger_i.Logger
}

var _ tenderModel.SessionStore = (*InMemorySessionStore)(nil)

func InitSessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		docMutex:       new(sync.RWMutex),
		documents:      make(map[string]tenderModel.Document),
		selectionMutex: new(sync.RWMutex),
		issueMutex:     new(sync.RWMutex),
		questionMutex:  new(sync.RWMutex),
		newId:          uuid.NewString,
		now:            time.Now,
		logger:         logger_i.NewLogger("SessionStore"),
	}
}

// AddDocument assigns the id and upload time, stores the document and selects it.
func (s *InMemorySessionStore) AddDocument(ctx context.Context, doc tenderModel.Document) tenderModel.Document {
	doc.Id = s.newId()
	doc.UploadedAt = s.now()

	s.docMutex.Lock()
	defer s.docMutex.Unlock()
	s.documents[doc.Id] = doc
	s.docOrder = append(s.docOrder, doc.Id)

	s.selectionMutex.Lock()
	s.selection = append(s.selection, doc.Id)
	s.selectionMutex.Unlock()

	s.logger.Trace(ctx).Debug("Document added", "documentId", doc.Id, "name", doc.Name)
	return doc
}

func (s *InMemorySessionStore) RemoveDocument(ctx context.Context, id string) bool {
	s.docMutex.Lock()
	defer s.docMutex.Unlock()
	if _, ok := s.documents[id]; !ok {
		return false
	}
	delete(s.documents, id)
	s.docOrder = slices.DeleteFunc(s.docOrder, func(d string) bool { return d == id })

	s.selectionMutex.Lock()
	s.selection = slices.DeleteFunc(s.selection, func(d string) bool { return d == id })
	s.selectionMutex.Unlock()

	s.logger.Trace(ctx).Debug("Document removed", "documentId", id)
	return true
}

func (s *InMemorySessionStore) Documents(ctx context.Context) []tenderModel.Document {
	s.docMutex.RLock()
	defer s.docMutex.RUnlock()
	result := make([]tenderModel.Document, 0, len(s.docOrder))
	for _, id := range s.docOrder {
		result = append(result, s.documents[id])
	}
	return result
}

func (s *InMemorySessionStore) Document(ctx context.Context, id string) (tenderModel.Document, bool) {
	s.docMutex.RLock()
	defer s.docMutex.RUnlock()
	doc, ok := s.documents[id]
	return doc, ok
}

// ToggleSelection flips membership and reports whether the document is now
// selected. Unknown ids are ignored.
func (s *InMemorySessionStore) ToggleSelection(ctx context.Context, id string) bool {
	s.docMutex.RLock()
	defer s.docMutex.RUnlock()
	if _, ok := s.documents[id]; !ok {
		return false
	}

	s.selectionMutex.Lock()
	defer s.selectionMutex.Unlock()
	if i := slices.Index(s.selection, id); i >= 0 {
		s.selection = slices.Delete(s.selection, i, i+1)
		return false
	}
	s.selection = append(s.selection, id)
	return true
}

func (s *InMemorySessionStore) IsSelected(ctx context.Context, id string) bool {
	s.selectionMutex.RLock()
	defer s.selectionMutex.RUnlock()
	return slices.Contains(s.selection, id)
}

// SelectedDocuments returns the selection in the order documents were selected.
func (s *InMemorySessionStore) SelectedDocuments(ctx context.Context) []tenderModel.Document {
	s.docMutex.RLock()
	defer s.docMutex.RUnlock()
	s.selectionMutex.RLock()
	defer s.selectionMutex.RUnlock()

	result := make([]tenderModel.Document, 0, len(s.selection))
	for _, id := range s.selection {
		if doc, ok := s.documents[id]; ok {
			result = append(result, doc)
		}
	}
	return result
}

func (s *InMemorySessionStore) AddIssues(ctx context.Context, batch []tenderModel.Issue) {
	if len(batch) == 0 {
		return
	}
	s.issueMutex.Lock()
	defer s.issueMutex.Unlock()
	s.issues = append(s.issues, batch...)
	s.logger.Trace(ctx).Debug("Issues added", "count", len(batch), "total", len(s.issues))
}

func (s *InMemorySessionStore) Issues(ctx context.Context) []tenderModel.Issue {
	s.issueMutex.RLock()
	defer s.issueMutex.RUnlock()
	return slices.Clone(s.issues)
}

func (s *InMemorySessionStore) Issue(ctx context.Context, id string) (tenderModel.Issue, bool) {
	s.issueMutex.RLock()
	defer s.issueMutex.RUnlock()
	for _, issue := range s.issues {
		if issue.Id == id {
			return issue, true
		}
	}
	return tenderModel.Issue{}, false
}

// AddQuestionFromIssue creates a draft question from an existing issue.
func (s *InMemorySessionStore) AddQuestionFromIssue(ctx context.Context, issueId string) (tenderModel.Question, bool) {
	issue, ok := s.Issue(ctx, issueId)
	if !ok {
		return tenderModel.Question{}, false
	}

	question := tenderModel.Question{
		Id:             s.newId(),
		Text:           issue.SuggestedQuestion,
		RelatedIssueId: issue.Id,
		IssueType:      issue.Type,
		Status:         tenderModel.QuestionDraft,
		SubmittedBy:    tenderModel.SystemSubmitter,
		CreatedAt:      s.now(),
	}

	s.questionMutex.Lock()
	defer s.questionMutex.Unlock()
	s.questions = append(s.questions, question)
	return question, true
}

func (s *InMemorySessionStore) Questions(ctx context.Context) []tenderModel.Question {
	s.questionMutex.RLock()
	defer s.questionMutex.RUnlock()
	result := make([]tenderModel.Question, len(s.questions))
	for i, q := range s.questions {
		result[i] = copyQuestion(q)
	}
	return result
}

func (s *InMemorySessionStore) Question(ctx context.Context, id string) (tenderModel.Question, bool) {
	s.questionMutex.RLock()
	defer s.questionMutex.RUnlock()
	for _, q := range s.questions {
		if q.Id == id {
			return copyQuestion(q), true
		}
	}
	return tenderModel.Question{}, false
}

// AttachResponse moves a draft question to responded. It reports false and
// changes nothing when the question is unknown or already answered.
func (s *InMemorySessionStore) AttachResponse(ctx context.Context, questionId string, text string) bool {
	s.questionMutex.Lock()
	defer s.questionMutex.Unlock()
	for i := range s.questions {
		if s.questions[i].Id != questionId {
			continue
		}
		if s.questions[i].Status != tenderModel.QuestionDraft {
			s.logger.Trace(ctx).Warn("Response already attached", "questionId", questionId)
			return false
		}
		answer := text
		s.questions[i].AIResponse = &answer
		s.questions[i].Status = tenderModel.QuestionResponded
		return true
	}
	return false
}

func copyQuestion(q tenderModel.Question) tenderModel.Question {
	if q.AIResponse != nil {
		answer := *q.AIResponse
		q.AIResponse = &answer
	}
	return q
}
