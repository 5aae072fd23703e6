package job

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/TenderAPI/internal/adapter/utils"
	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/metrics"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	Session           tenderModel.SessionStore
	InFlight          *InFlight
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	Session           tenderModel.SessionStore
	InFlight          *InFlight
}

func InitJobService(cfg ServiceConfig) *Service {
	inFlight := cfg.InFlight
	if inFlight == nil {
		inFlight = NewInFlight()
	}
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		Session:           cfg.Session,
		InFlight:          inFlight,
		logger:            logger_i.NewLogger("JobService"),
	}
}

// NewAnalyzeJob builds a queued batch analysis over the given documents.
func NewAnalyzeJob(traceId string, documentIds []string) jobModel.Job {
	return jobModel.Job{
		Id:          utils.GetNewUUID(),
		TraceId:     traceId,
		JobType:     jobModel.JobTypeAnalyze,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.Idle,
		InFlightKey: AnalyzeKey,
		JobPayload:  jobModel.JobPayload{DocumentIds: documentIds},
	}
}

func NewRespondJob(traceId string, questionId string) jobModel.Job {
	return jobModel.Job{
		Id:          utils.GetNewUUID(),
		TraceId:     traceId,
		JobType:     jobModel.JobTypeRespond,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.Idle,
		InFlightKey: RespondKey(questionId),
		JobPayload:  jobModel.JobPayload{QuestionId: questionId},
	}
}

// Enqueue records the queued run and hands it to the worker pool. The send
// blocks when the buffer is full so the service cannot be flooded.
func (s *Service) Enqueue(ctx context.Context, newJob jobModel.Job) {
	log := s.logger.Trace(ctx).With("jobId", newJob.Id, "jobType", newJob.JobType)

	if err := s.JobStore.SaveJob(ctx, newJob); err != nil {
		log.Error("Failed to save queued run", "error", err)
	}

	metrics.IncrementJobsInQueue()
	s.JobChannel <- newJob
	log.Info("Created new job")

	//a new worker is started every few requests, idle workers retire on their own
	accurateCount := atomic.AddInt64(&s.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 {
		metrics.StartDispatcherSignalCount()
		log.Debug("Signalling dispatcher", "requestCount", accurateCount)
		select {
		case s.DispatcherChannel <- true:
		default:
		}
	}
}

func (s *Service) GetJob(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}
