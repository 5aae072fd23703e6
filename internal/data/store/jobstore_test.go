package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/data/redisStore"
	"github.com/akolanti/TenderAPI/internal/data/store"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.NewRedisJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:          jobID,
		JobType:     jobModel.JobTypeRespond,
		Status:      jobModel.JobStatusRunning,
		CurrentStep: jobModel.AwaitingCompletion,
		JobPayload: jobModel.JobPayload{
			QuestionId: "q-1",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.QuestionId != "q-1" || retrievedJob.CurrentStep != jobModel.AwaitingCompletion {
			t.Errorf("Data mismatch! Got %+v", retrievedJob)
		}
		if ttl := mr.TTL("run:" + jobID); ttl != config.RedisJobStoreTTL {
			t.Errorf("TTL got %v, want %v", ttl, config.RedisJobStoreTTL)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Corrupt Entry Is Not Found", func(t *testing.T) {
		_ = mr.Set("run:corrupt", "{not json")
		if _, found := jobStore.GetJob(ctx, "corrupt"); found {
			t.Error("Expected found=false for an entry that is not JSON")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists("run:" + jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.NewRedisJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	if _, found := jobStore.GetJob(ctx, "race-job"); !found {
		t.Error("Expected race-job to be stored")
	}
}

func TestInMemoryJobStore(t *testing.T) {
	ctx := context.Background()
	s := store.InitInMemoryJobStore()

	_ = s.SaveJob(ctx, jobModel.Job{Id: "j1", Status: jobModel.JobStatusQueued})
	got, found := s.GetJob(ctx, "j1")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Fatalf("got %+v found=%v", got, found)
	}

	s.DeleteJob(ctx, "j1")
	if _, found := s.GetJob(ctx, "j1"); found {
		t.Error("Expected j1 to be deleted")
	}
}
