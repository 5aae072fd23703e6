package job

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/data/store"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInFlight_KeysAreIndependent(t *testing.T) {
	f := NewInFlight()

	require.True(t, f.TryAcquire(AnalyzeKey))
	assert.False(t, f.TryAcquire(AnalyzeKey))

	assert.True(t, f.TryAcquire(RespondKey("q1")))
	assert.True(t, f.TryAcquire(RespondKey("q2")))
	assert.False(t, f.TryAcquire(RespondKey("q1")))

	f.Release(AnalyzeKey)
	assert.False(t, f.IsBusy(AnalyzeKey))
	assert.True(t, f.TryAcquire(AnalyzeKey))
	assert.True(t, f.IsBusy(RespondKey("q2")))
}

func TestInFlight_OnlyOneWinner(t *testing.T) {
	f := NewInFlight()
	var wins int32
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.TryAcquire(AnalyzeKey) {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins)
}

func TestEnqueue_SavesQueuedRunAndSignals(t *testing.T) {
	jobs := store.InitInMemoryJobStore()
	svc := InitJobService(ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 20),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          jobs,
	})
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace")

	for i := int64(0); i < config.RequestsPerNewWorkerCount; i++ {
		svc.Enqueue(ctx, NewAnalyzeJob("trace", []string{"d1"}))
	}

	assert.Len(t, svc.JobChannel, int(config.RequestsPerNewWorkerCount))
	assert.Len(t, svc.DispatcherChannel, 1)

	queued := <-svc.JobChannel
	stored, found := svc.GetJob(ctx, queued.Id)
	require.True(t, found)
	assert.Equal(t, jobModel.JobStatusQueued, stored.Status)
	assert.Equal(t, AnalyzeKey, stored.InFlightKey)
	assert.Equal(t, []string{"d1"}, stored.JobPayload.DocumentIds)

	_, found = svc.GetJob(ctx, "")
	assert.False(t, found)
}

func TestNewRespondJob(t *testing.T) {
	j := NewRespondJob("trace", "q-9")

	assert.Equal(t, jobModel.JobTypeRespond, j.JobType)
	assert.Equal(t, "respond:q-9", j.InFlightKey)
	assert.Equal(t, "q-9", j.JobPayload.QuestionId)
	assert.NotEmpty(t, j.Id)
}
