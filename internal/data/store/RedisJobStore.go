package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/data/redisStore"
	"github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
)

const runKeyPrefix = "run:"

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisJobStore returns nil when Redis is offline so the caller can fall back
// to the in-memory store.
func GetRedisJobStore(ctx context.Context, settings config.Settings) *RedisJobStore {
	s := redisStore.GetRedisStore(ctx, settings.RedisAddr, settings.RedisPassword, config.RedisJobStore)
	if s == nil {
		return nil
	}
	return NewRedisJobStore(s)
}

func NewRedisJobStore(s *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  s,
		logger: logger_i.NewLogger("JobStore"),
	}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	log := s.logger.Trace(ctx).With("jobId", job.Id)
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, runKeyPrefix+job.Id, data, config.RedisJobStoreTTL)
	if err == nil {
		log.Debug("Saved run to Redis", "status", job.Status, "step", job.CurrentStep)
	}
	return err
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	log := s.logger.Trace(ctx).With("jobId", jobId)
	val, err := s.store.Get(ctx, runKeyPrefix+jobId)
	if s.store.IsNil(err) {
		return job, false
	} else if err != nil {
		log.Error("Error reading run from Redis", "error", err)
		return job, false
	}

	if err = json.Unmarshal([]byte(val), &job); err != nil {
		log.Error("Stored run is not valid JSON", "error", err)
		return job, false
	}
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	if err := s.store.Del(ctx, runKeyPrefix+jobID); err != nil {
		s.logger.Error("Error deleting run from Redis", "jobId", jobID, "error", err)
		return
	}
	s.logger.Debug("Run deleted from Redis", "jobId", jobID)
}
