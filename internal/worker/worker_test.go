package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/TenderAPI/internal/data/store"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/job"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
)

// MockTenderService counts the runs it is handed
type MockTenderService struct {
	ProcessedCount int32
}

func (m *MockTenderService) AnalyzeDocuments(ctx context.Context, run *jobModel.Job, docs []tenderModel.Document) tenderModel.AnalysisResult {
	atomic.AddInt32(&m.ProcessedCount, 1)
	run.CurrentStep = jobModel.Done
	return tenderModel.AnalysisResult{Issues: []tenderModel.Issue{{Id: "issue-1", SourceFile: "a.pdf"}}}
}

func (m *MockTenderService) GenerateResponse(ctx context.Context, run *jobModel.Job, q tenderModel.Question) tenderModel.AnswerResult {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return tenderModel.AnswerResult{Answer: "answer"}
}

type MockJobStore struct {
	mu    sync.Mutex
	saved []jobModel.Job
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].Id == jobId {
			return m.saved[i], true
		}
	}
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, j)
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	jobStore := &MockJobStore{}
	jobSvc := job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
		Session:           store.InitSessionStore(),
	})
	mockTender := &MockTenderService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockTender)
	InitWorkerPool(stopChan, wg)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job and releases the guard", func(t *testing.T) {
		doc := jobSvc.Session.AddDocument(context.Background(), tenderModel.Document{Name: "a.pdf"})
		run := job.NewAnalyzeJob("trace", []string{doc.Id})
		jobSvc.InFlight.TryAcquire(run.InFlightKey)
		jobSvc.JobChannel <- run

		time.Sleep(100 * time.Millisecond)

		if processed := atomic.LoadInt32(&mockTender.ProcessedCount); processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
		stored, found := jobStore.GetJob(context.Background(), run.Id)
		if !found || stored.Status != jobModel.JobStatusComplete {
			t.Errorf("Expected stored COMPLETE run, got %+v", stored)
		}
		if len(jobSvc.Session.Issues(context.Background())) != 1 {
			t.Error("Expected the issue batch to be applied to the session")
		}
		if jobSvc.InFlight.IsBusy(job.AnalyzeKey) {
			t.Error("Expected the analyze key to be released")
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 0)
	idleWorkerTimeout = 50 * time.Millisecond
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := job.InitJobService(job.ServiceConfig{
		JobChannel: make(chan jobModel.Job),
	})
	InitServices(jobSvc, &MockTenderService{})

	wg := &sync.WaitGroup{}
	workerWaitGroup = wg
	stopWorkerChannel = make(chan bool)

	createWorker()
	time.Sleep(idleWorkerTimeout + 100*time.Millisecond)

	if count := atomic.LoadInt64(&currentWorkerCount); count != 0 {
		t.Errorf("Worker should have timed out and retired, but count is %d", count)
	}
}
