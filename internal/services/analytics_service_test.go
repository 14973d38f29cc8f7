package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studytracker/internal/analytics"
	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository/sqlite"
	"github.com/vytor/studytracker/internal/testutil"
	"github.com/vytor/studytracker/internal/testutil/mocks"
)

type analyticsFixture struct {
	db        *sql.DB
	svc       *analyticsService
	subjectID int64
	examID    int64
	quizID    int64
	calls     int
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	ctx := context.Background()
	conn := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, conn) })

	deps := AnalyticsDeps{
		Subjects:     sqlite.NewSubjectRepository(conn),
		Categories:   sqlite.NewCategoryRepository(conn),
		Sessions:     sqlite.NewSessionRepository(conn),
		Assessments:  sqlite.NewAssessmentRepository(conn),
		GradeEntries: sqlite.NewGradeEntryRepository(conn),
	}
	svc, err := NewAnalyticsService(deps, analytics.DefaultConfig(), 90, 8)
	require.NoError(t, err)

	f := &analyticsFixture{db: conn, svc: svc.(*analyticsService)}
	f.svc.now = func() time.Time {
		f.calls++
		return time.Date(2024, 5, 1, 12, 0, f.calls, 0, time.UTC)
	}

	semID := testutil.MustExec(t, conn, `INSERT INTO semesters (name) VALUES ('Spring')`)
	subj, err := deps.Subjects.Create(ctx, models.Subject{SemesterID: semID, Name: "Math", TotalExams: 3, TargetGrade: 90})
	require.NoError(t, err)
	f.subjectID = subj.ID

	cats, err := deps.Categories.List(ctx, subj.ID)
	require.NoError(t, err)
	f.examID = cats[0].ID
	quiz, err := deps.Categories.Create(ctx, models.Category{SubjectID: subj.ID, Name: "Quiz"})
	require.NoError(t, err)
	f.quizID = quiz.ID
	require.NoError(t, deps.Categories.SetWeights(ctx, subj.ID, models.Weights{f.examID: 60, f.quizID: 40}))

	day := func(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }
	for _, s := range []struct{ start, end time.Time }{
		{day(1, 10), day(1, 11)},
		{day(4, 10), day(4, 12)},
		{day(8, 9), day(8, 12)},
	} {
		_, err := deps.Sessions.Insert(ctx, models.StudySession{
			SemesterID: semID, SubjectID: subj.ID, StartTime: s.start, EndTime: s.end,
			DurationSeconds: int64(s.end.Sub(s.start).Seconds()),
		})
		require.NoError(t, err)
	}
	for _, a := range []models.Assessment{
		{SubjectID: subj.ID, CategoryID: f.quizID, Name: "Q1", Date: day(2, 0), Grade: "70"},
		{SubjectID: subj.ID, CategoryID: f.quizID, Name: "Q2", Date: day(5, 0), Grade: "90"},
		{SubjectID: subj.ID, CategoryID: f.examID, Name: "Midterm", Date: day(9, 0), Grade: "85%"},
	} {
		_, err := deps.Assessments.Insert(ctx, a)
		require.NoError(t, err)
	}
	return f
}

func TestAnalyticsService_Report(t *testing.T) {
	f := newAnalyticsFixture(t)

	report, err := f.svc.Report(context.Background(), f.subjectID, nil)
	require.NoError(t, err)

	require.Len(t, report.Assessments, 3)
	assert.Equal(t, "Q1", report.Assessments[0].Name)
	assert.Equal(t, int64(3600), report.Assessments[0].CalculatedTimeSeconds)
	assert.Equal(t, int64(7200), report.Assessments[1].CalculatedTimeSeconds)
	// The exam window covers every session up to its date.
	assert.Equal(t, int64(6*3600), report.Assessments[2].CalculatedTimeSeconds)

	require.NotNil(t, report.Analytics.Prediction)
	assert.Equal(t, 3, report.Analytics.Prediction.Points)

	// quiz avg 80 * 0.4 + exam 85 * 0.6 = 83
	assert.InDelta(t, 83.0, report.Grade.CurrentGrade, 1e-9)
	assert.InDelta(t, 0.0, report.Grade.RemainingWeight, 1e-9)
	assert.Equal(t, 2, report.Grade.ExamsRemaining)
	assert.Equal(t, 90.0, report.Grade.TargetGrade)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC), report.ComputedAt)
}

func TestAnalyticsService_Report_CachedUntilInputsChange(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	first, err := f.svc.Report(ctx, f.subjectID, nil)
	require.NoError(t, err)
	second, err := f.svc.Report(ctx, f.subjectID, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ComputedAt, second.ComputedAt)
	assert.Equal(t, 1, f.calls)

	// A different target is a different input.
	target := 95.0
	_, err = f.svc.Report(ctx, f.subjectID, &target)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)

	// Writes are picked up even without an explicit invalidation.
	_, err = f.svc.deps.Assessments.Insert(ctx, models.Assessment{SubjectID: f.subjectID, CategoryID: f.quizID, Name: "Q3", Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Grade: "100"})
	require.NoError(t, err)
	third, err := f.svc.Report(ctx, f.subjectID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, f.calls)
	assert.Len(t, third.Assessments, 4)
}

func TestAnalyticsService_Invalidate(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	_, err := f.svc.Report(ctx, f.subjectID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.svc.cache.Len())

	f.svc.Invalidate(f.subjectID)
	assert.Equal(t, 0, f.svc.cache.Len())
	assert.Empty(t, f.svc.keys)

	_, err = f.svc.Report(ctx, f.subjectID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestAnalyticsService_GradeReport_TargetOverride(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	target := 80.0
	grade, err := f.svc.GradeReport(ctx, f.subjectID, &target)
	require.NoError(t, err)
	assert.Equal(t, 80.0, grade.TargetGrade)

	bad := -1.0
	_, err = f.svc.GradeReport(ctx, f.subjectID, &bad)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
}

func TestAnalyticsService_UnknownSubject(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	_, err := f.svc.Analytics(ctx, 9999)
	assert.True(t, errors.IsNotFound(err))
	assert.NoError(t, f.svc.Recompute(ctx, 9999))
}

func TestAnalyticsService_WarmAll(t *testing.T) {
	f := newAnalyticsFixture(t)

	require.NoError(t, f.svc.WarmAll(context.Background()))
	assert.Equal(t, 1, f.svc.cache.Len())
}

func TestChangeNotifier_SubjectChanged(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueRecompute", f.subjectID).Return(nil)

	_, err := f.svc.Report(ctx, f.subjectID, nil)
	require.NoError(t, err)

	NewChangeNotifier(f.svc, queue).SubjectChanged(ctx, f.subjectID)

	assert.Equal(t, 0, f.svc.cache.Len())
	queue.AssertExpectations(t)
}
