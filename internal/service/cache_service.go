package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
	"github.com/noah-isme/siakad-api/pkg/jobs"
)

// Job types handled by CacheService.HandleJob.
const (
	JobTypeCacheInvalidate = "cache.invalidate"
	JobTypeCacheDelete     = "cache.delete"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// CacheService orchestrates cache operations and related metrics.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
	queue      jobEnqueuer
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// UseQueue attaches the queue that retries failed deletes.
func (s *CacheService) UseQueue(queue jobEnqueuer) {
	if s != nil {
		s.queue = queue
	}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true on a hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores value in cache. A non-positive ttl uses the default.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values matching pattern. Failures are queued for retry like Delete.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		s.retry(jobs.Job{Type: JobTypeCacheInvalidate, Payload: pattern})
		return err
	}
	return nil
}

// Delete removes exact keys before returning. A failed delete is handed to the
// queue for retry when one is attached.
func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	err := s.repo.Delete(ctx, keys...)
	if err == nil {
		return nil
	}
	s.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	s.retry(jobs.Job{Type: JobTypeCacheDelete, Payload: keys})
	return err
}

func (s *CacheService) retry(job jobs.Job) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("cache retry not queued", zap.String("type", job.Type), zap.Error(err))
	}
}

// HandleJob is the jobs.Handler for cache invalidation and delete retries.
func (s *CacheService) HandleJob(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case JobTypeCacheInvalidate:
		pattern, ok := job.Payload.(string)
		if !ok || pattern == "" {
			return fmt.Errorf("invalid cache invalidation payload %v", job.Payload)
		}
		if !s.Enabled() {
			return nil
		}
		return s.repo.DeleteByPattern(ctx, pattern)
	case JobTypeCacheDelete:
		keys, ok := job.Payload.([]string)
		if !ok || len(keys) == 0 {
			return fmt.Errorf("invalid cache delete payload %v", job.Payload)
		}
		if !s.Enabled() {
			return nil
		}
		return s.repo.Delete(ctx, keys...)
	default:
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
}
