package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/akolanti/TenderAPI/internal/api"
	"github.com/akolanti/TenderAPI/internal/data/store"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/handlers"
	"github.com/akolanti/TenderAPI/internal/job"
	"github.com/akolanti/TenderAPI/internal/server"
	"github.com/akolanti/TenderAPI/internal/tender/extract"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor returns the uploaded bytes as text, or an extraction error
// for anything that does not start with %PDF.
type fakeExtractor struct{}

func (fakeExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", &tenderModel.ExtractionError{Reason: "not a PDF document"}
	}
	return "--- Page 1 ---\n" + string(data[4:]), nil
}

func (fakeExtractor) State() extract.State { return extract.Ready }

type upload struct {
	name        string
	contentType string
	body        string
}

type testServer struct {
	router http.Handler
	jobs   *job.Service
}

func newTestServer() testServer {
	jobs := job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store.InitInMemoryJobStore(),
		Session:           store.InitSessionStore(),
	})
	r := chi.NewRouter()
	server.RegisterRoutes(r, server.Routes{Handler: handlers.NewHandler(jobs, fakeExtractor{})})
	return testServer{router: r, jobs: jobs}
}

func (s testServer) do(t *testing.T, method string, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s testServer) upload(t *testing.T, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="documents"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return s.do(t, http.MethodPost, "/documents", body, mw.FormDataContentType())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestUpload_PartialBatch(t *testing.T) {
	s := newTestServer()

	rec := s.upload(t,
		upload{name: "spec.pdf", contentType: "application/pdf", body: "%PDF concrete C30"},
		upload{name: "broken.pdf", contentType: "application/pdf", body: "garbage"},
		upload{name: "notes.txt", contentType: "text/plain", body: "hello"},
	)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[api.UploadResponse](t, rec)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "spec.pdf", resp.Documents[0].Name)
	assert.True(t, resp.Documents[0].Selected)
	assert.True(t, strings.HasSuffix(resp.Documents[0].Size, " KB"))

	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "broken.pdf", resp.Errors[0].File)
	assert.Equal(t, string(tenderModel.KindExtraction), resp.Errors[0].Kind)
	assert.Equal(t, "unsupported_type", resp.Errors[1].Kind)

	assert.Len(t, s.jobs.Session.Documents(context.Background()), 1)
}

func TestUpload_AllRejected(t *testing.T) {
	s := newTestServer()
	rec := s.upload(t, upload{name: "broken.pdf", contentType: "application/pdf", body: "garbage"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, s.jobs.Session.Documents(context.Background()))
}

func TestUpload_NoFiles(t *testing.T) {
	s := newTestServer()
	rec := s.upload(t)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocuments_ToggleAndDelete(t *testing.T) {
	s := newTestServer()
	uploaded := decode[api.UploadResponse](t, s.upload(t,
		upload{name: "a.pdf", contentType: "application/pdf", body: "%PDF a"},
		upload{name: "b.pdf", contentType: "application/pdf", body: "%PDF b"},
	))
	require.Len(t, uploaded.Documents, 2)
	a, b := uploaded.Documents[0].Id, uploaded.Documents[1].Id

	rec := s.do(t, http.MethodPost, "/documents/"+a+"/toggle", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[api.ToggleResponse](t, rec).Selected)

	listed := decode[[]api.DocumentResponse](t, s.do(t, http.MethodGet, "/documents", nil, ""))
	require.Len(t, listed, 2)
	assert.False(t, listed[0].Selected)
	assert.True(t, listed[1].Selected)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/documents/"+b, nil, "").Code)
	assert.Empty(t, s.jobs.Session.SelectedDocuments(context.Background()))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/documents/"+b, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/documents/"+uuid.NewString()+"/toggle", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/documents/not-a-uuid/toggle", nil, "").Code)
}

func TestAnalyze_QueuesOneRunAtATime(t *testing.T) {
	s := newTestServer()

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/analyze", nil, "").Code)

	s.upload(t, upload{name: "a.pdf", contentType: "application/pdf", body: "%PDF a"})
	rec := s.do(t, http.MethodPost, "/analyze", nil, "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	queued := decode[api.InitJobResponse](t, rec)
	assert.Equal(t, "/status/"+queued.Id, queued.StatusURL)

	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/analyze", nil, "").Code)

	status := decode[api.JobResponse](t, s.do(t, http.MethodGet, queued.StatusURL, nil, ""))
	assert.Equal(t, string(jobModel.JobStatusQueued), status.Result.Status)
	assert.Equal(t, string(jobModel.JobTypeAnalyze), status.Type)
	require.NotNil(t, status.Result.Analysis)
	assert.Len(t, status.Result.Analysis.DocumentIds, 1)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/status/"+uuid.NewString(), nil, "").Code)
}

func TestQuestions_Flow(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	issueId := uuid.NewString()
	s.jobs.Session.AddIssues(ctx, []tenderModel.Issue{{
		Id:                issueId,
		Type:              tenderModel.Ambiguity,
		Severity:          tenderModel.SeverityMedium,
		SuggestedQuestion: "Which concrete grade applies?",
		SourceFile:        "spec.pdf",
	}})

	issues := decode[[]api.IssueResponse](t, s.do(t, http.MethodGet, "/issues", nil, ""))
	require.Len(t, issues, 1)
	assert.Equal(t, "spec.pdf", issues[0].SourceFile)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/issues/"+uuid.NewString()+"/questions", nil, "").Code)

	rec := s.do(t, http.MethodPost, "/issues/"+issueId+"/questions", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	question := decode[api.QuestionResponse](t, rec)
	assert.Equal(t, "Which concrete grade applies?", question.Text)
	assert.Equal(t, tenderModel.SystemSubmitter, question.SubmittedBy)
	assert.Equal(t, string(tenderModel.QuestionDraft), question.Status)

	rec = s.do(t, http.MethodPost, "/questions/"+question.Id+"/response", nil, "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/questions/"+question.Id+"/response", nil, "").Code)

	require.True(t, s.jobs.Session.AttachResponse(ctx, question.Id, "Grade C30 applies."))
	s.jobs.InFlight.Release(job.RespondKey(question.Id))
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/questions/"+question.Id+"/response", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/questions/"+uuid.NewString()+"/response", nil, "").Code)

	listed := decode[[]api.QuestionResponse](t, s.do(t, http.MethodGet, "/questions", nil, ""))
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].AIResponse)
	assert.Equal(t, "Grade C30 applies.", *listed[0].AIResponse)
}

func TestRoutes_TraceHeader(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/documents", nil, "")
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}
