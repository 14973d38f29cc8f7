package worker

import (
	"context"

	"github.com/vytor/studytracker/internal/logger"
)

// ReportService is the part of the analytics service background jobs need.
// It is declared here so this package does not import services.
type ReportService interface {
	Recompute(ctx context.Context, subjectID int64) error
	WarmAll(ctx context.Context) error
}

// RecomputeReportJob re-derives one subject's report so the next read is a
// cache hit.
type RecomputeReportJob struct {
	Reports   ReportService
	SubjectID int64
}

func (j *RecomputeReportJob) Name() string { return "recompute_report" }

func (j *RecomputeReportJob) Run(ctx context.Context) error {
	logger.FromContext(ctx).Debug("recomputing report: subject_id=%d", j.SubjectID)
	return j.Reports.Recompute(ctx, j.SubjectID)
}

// WarmReportsJob recomputes the reports of every active subject.
type WarmReportsJob struct {
	Reports ReportService
}

func (j *WarmReportsJob) Name() string { return "warm_reports" }

func (j *WarmReportsJob) Run(ctx context.Context) error {
	return j.Reports.WarmAll(ctx)
}
