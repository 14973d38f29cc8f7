package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := NewPool(2, 8)
	p.Start(context.Background())
	defer p.Stop()

	var wg sync.WaitGroup
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(funcJob{name: "count", fn: func(context.Context) error {
			defer wg.Done()
			ran.Add(1)
			return nil
		}}))
	}
	wg.Wait()
	assert.Equal(t, int32(5), ran.Load())
}

func TestPool_SubmitWhenFull(t *testing.T) {
	p := NewPool(1, 1)
	// Not started, so nothing drains the queue.
	require.NoError(t, p.Submit(funcJob{name: "a", fn: func(context.Context) error { return nil }}))
	assert.ErrorIs(t, p.Submit(funcJob{name: "b", fn: func(context.Context) error { return nil }}), ErrQueueFull)
	assert.Equal(t, 1, p.QueueSize())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	assert.ErrorIs(t, p.Submit(funcJob{name: "late", fn: func(context.Context) error { return nil }}), ErrPoolStopped)
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	p := NewPool(1, 4)
	p.Start(context.Background())
	defer p.Stop()

	done := make(chan struct{})
	require.NoError(t, p.Submit(funcJob{name: "fail", fn: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, p.Submit(funcJob{name: "panic", fn: func(context.Context) error { panic("boom") }}))
	require.NoError(t, p.Submit(funcJob{name: "ok", fn: func(context.Context) error { close(done); return nil }}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from failing jobs")
	}
}

type fakeReports struct {
	mu       sync.Mutex
	subjects []int64
	warmed   int
}

func (f *fakeReports) Recompute(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, id)
	return nil
}

func (f *fakeReports) WarmAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warmed++
	return nil
}

func TestReportJobs(t *testing.T) {
	reports := &fakeReports{}
	ctx := context.Background()

	require.NoError(t, (&RecomputeReportJob{Reports: reports, SubjectID: 4}).Run(ctx))
	require.NoError(t, (&WarmReportsJob{Reports: reports}).Run(ctx))

	assert.Equal(t, []int64{4}, reports.subjects)
	assert.Equal(t, 1, reports.warmed)
}
