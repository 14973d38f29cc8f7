package jobs

import (
	"github.com/vytor/studytracker/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool    *worker.Pool
	reports worker.ReportService
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, reports worker.ReportService) *WorkerQueue {
	return &WorkerQueue{pool: pool, reports: reports}
}

func (q *WorkerQueue) EnqueueRecompute(subjectID int64) error {
	return q.pool.Submit(&worker.RecomputeReportJob{
		Reports:   q.reports,
		SubjectID: subjectID,
	})
}

// EnqueueWarmAll schedules a recompute of every active subject.
func (q *WorkerQueue) EnqueueWarmAll() error {
	return q.pool.Submit(&worker.WarmReportsJob{Reports: q.reports})
}
