package services

import (
	"context"

	"github.com/vytor/studytracker/internal/jobs"
	"github.com/vytor/studytracker/internal/logger"
)

// ChangeNotifier is told after every successful write that feeds a
// subject's derived report.
type ChangeNotifier interface {
	SubjectChanged(ctx context.Context, subjectID int64)
}

type changeNotifier struct {
	analytics AnalyticsService
	queue     jobs.JobQueue
}

// NewChangeNotifier drops the cached report of a changed subject and, when a
// queue is given, schedules a background recompute.
func NewChangeNotifier(analytics AnalyticsService, queue jobs.JobQueue) ChangeNotifier {
	return &changeNotifier{analytics: analytics, queue: queue}
}

func (n *changeNotifier) SubjectChanged(ctx context.Context, subjectID int64) {
	log := logger.FromContext(ctx).WithPrefix("notifier")
	log.Debug("subject changed: id=%d", subjectID)

	n.analytics.Invalidate(subjectID)
	if n.queue == nil {
		return
	}
	// A full queue only delays the recompute until the next read.
	if err := n.queue.EnqueueRecompute(subjectID); err != nil {
		log.Warn("could not enqueue recompute for subject %d: %v", subjectID, err)
	}
}

type nopNotifier struct{}

func (nopNotifier) SubjectChanged(context.Context, int64) {}

func notifierOrNop(n ChangeNotifier) ChangeNotifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
