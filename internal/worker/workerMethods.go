package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/TenderAPI/internal/config"
	jobmodel "github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()
	log := logger.Trace(ctx).With("jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job)

	_jobService.Execute(ctx, _tenderService, &job)

	// status is stored on a fresh context so a run that hit its deadline is still recorded
	saveCtx, saveCancel := context.WithTimeout(ctxTrace, 5*time.Second)
	defer saveCancel()
	saveJobState(saveCtx, job)
	log.Info("Job finished", "status", job.Status, "step", job.CurrentStep)
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	count := atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Trace(ctx).Error("Failed to update run status", "jobId", job.Id, "err", err)
	}
}
