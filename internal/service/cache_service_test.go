package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-api/internal/models"
	"github.com/noah-isme/siakad-api/pkg/jobs"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) snapshot() []jobs.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]jobs.Job(nil), q.jobs...)
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemCache()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out models.KRSSummary
	hit, err := svc.Get(ctx, "krs:summary:stu-1:T1", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "krs:summary:stu-1:T1", models.KRSSummary{StudentID: "stu-1", TotalCredits: 9}, 0))
	hit, err = svc.Get(ctx, "krs:summary:stu-1:T1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 9, out.TotalCredits)

	require.NoError(t, svc.Invalidate(ctx, "krs:summary:stu-1:*"))
	assert.False(t, repo.has("krs:summary:stu-1:T1"))
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(nil, nil, time.Minute, nil, true)
	assert.False(t, svc.Enabled())

	var out models.KRSSummary
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, svc.Set(context.Background(), "k", out, 0))
	assert.NoError(t, svc.Delete(context.Background(), "k"))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.NoError(t, nilSvc.Delete(context.Background(), "k"))
	assert.NoError(t, nilSvc.Invalidate(context.Background(), "k*"))
}

func TestCacheServiceDeleteIsExact(t *testing.T) {
	repo := newMemCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	svc.UseQueue(&recordingQueue{})
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "krs:summary:stu-1:T1", models.KRSSummary{}, 0))
	require.NoError(t, svc.Set(ctx, "krs:summary:stu-2:T1", models.KRSSummary{}, 0))

	require.NoError(t, svc.Delete(ctx, "krs:summary:*:T1"))
	assert.True(t, repo.has("krs:summary:stu-1:T1"))
	assert.True(t, repo.has("krs:summary:stu-2:T1"))
	assert.Empty(t, repo.patterns)

	require.NoError(t, svc.Delete(ctx, "krs:summary:stu-1:T1"))
	assert.False(t, repo.has("krs:summary:stu-1:T1"))
	assert.True(t, repo.has("krs:summary:stu-2:T1"))
}

func TestCacheServiceRetriesFailedDeletes(t *testing.T) {
	t.Run("delete", func(t *testing.T) {
		repo := newMemCache()
		repo.failDeletes(errStoreDown)
		queue := &recordingQueue{}
		svc := NewCacheService(repo, nil, time.Minute, nil, true)
		svc.UseQueue(queue)

		assert.ErrorIs(t, svc.Delete(context.Background(), "krs:summary:stu-1:T1"), errStoreDown)
		queued := queue.snapshot()
		require.Len(t, queued, 1)
		assert.Equal(t, JobTypeCacheDelete, queued[0].Type)
		assert.Equal(t, []string{"krs:summary:stu-1:T1"}, queued[0].Payload)
	})

	t.Run("pattern", func(t *testing.T) {
		repo := newMemCache()
		repo.failDeletes(errStoreDown)
		queue := &recordingQueue{}
		svc := NewCacheService(repo, nil, time.Minute, nil, true)
		svc.UseQueue(queue)

		assert.Error(t, svc.Invalidate(context.Background(), "krs:summary:*"))
		queued := queue.snapshot()
		require.Len(t, queued, 1)
		assert.Equal(t, JobTypeCacheInvalidate, queued[0].Type)
		assert.Equal(t, "krs:summary:*", queued[0].Payload)
	})

	t.Run("queue refusal still reports the delete error", func(t *testing.T) {
		repo := newMemCache()
		repo.failDeletes(errStoreDown)
		svc := NewCacheService(repo, nil, time.Minute, nil, true)
		svc.UseQueue(&recordingQueue{err: errors.New("queue cache full")})

		assert.ErrorIs(t, svc.Delete(context.Background(), "krs:summary:stu-1:T1"), errStoreDown)
	})
}

func TestCacheServiceHandleJob(t *testing.T) {
	repo := newMemCache()
	queue := &recordingQueue{}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	svc.UseQueue(queue)
	ctx := context.Background()

	require.NoError(t, svc.HandleJob(ctx, jobs.Job{Type: JobTypeCacheInvalidate, Payload: "krs:summary:*"}))
	assert.Equal(t, []string{"krs:summary:*"}, repo.patterns)
	require.NoError(t, svc.HandleJob(ctx, jobs.Job{Type: JobTypeCacheDelete, Payload: []string{"krs:summary:stu-1:T1"}}))
	assert.Equal(t, [][]string{{"krs:summary:stu-1:T1"}}, repo.deletes)

	assert.Error(t, svc.HandleJob(ctx, jobs.Job{Type: "report.generate", Payload: "x"}))
	assert.Error(t, svc.HandleJob(ctx, jobs.Job{Type: JobTypeCacheInvalidate, Payload: 42}))
	assert.Error(t, svc.HandleJob(ctx, jobs.Job{Type: JobTypeCacheDelete, Payload: "krs:summary:stu-1:T1"}))

	repo.failDeletes(errStoreDown)
	assert.ErrorIs(t, svc.HandleJob(ctx, jobs.Job{Type: JobTypeCacheDelete, Payload: []string{"k"}}), errStoreDown)
	assert.Empty(t, queue.snapshot())
}

func TestCacheServiceRetryOnWorkerQueue(t *testing.T) {
	repo := newMemCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	require.NoError(t, svc.Set(context.Background(), "krs:summary:stu-1:T1", models.KRSSummary{StudentID: "stu-1"}, 0))

	queue := jobs.NewQueue("cache", svc.HandleJob, jobs.QueueConfig{Workers: 1, MaxRetries: 5, RetryDelay: 10 * time.Millisecond})
	queue.Start(context.Background())
	defer queue.Stop()
	svc.UseQueue(queue)

	repo.failDeletes(errStoreDown)
	assert.Error(t, svc.Delete(context.Background(), "krs:summary:stu-1:T1"))
	repo.failDeletes(nil)

	assert.Eventually(t, func() bool {
		return !repo.has("krs:summary:stu-1:T1")
	}, time.Second, 10*time.Millisecond)
}
