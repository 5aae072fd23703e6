package handlers

import (
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/job"
	"github.com/akolanti/TenderAPI/internal/tender/extract"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/go-playground/validator/v10"
)

var logRH = logger_i.NewLogger("RequestHandler")

// Handler serves the session endpoints. It holds no state of its own; the
// session and the run queue are owned by the job service.
type Handler struct {
	jobs      *job.Service
	session   tenderModel.SessionStore
	extractor extract.TextExtractor
	validate  *validator.Validate
	logger    *logger_i.Logger
}

func NewHandler(jobService *job.Service, extractor extract.TextExtractor) *Handler {
	logJH := logger_i.NewLogger("JobHandler")
	logJH.Info("Starting job handler")
	return &Handler{
		jobs:      jobService,
		session:   jobService.Session,
		extractor: extractor,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logJH,
	}
}
