package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studytracker/internal/analytics"
	"github.com/vytor/studytracker/internal/models"
)

func TestEndOfDay(t *testing.T) {
	eod := analytics.EndOfDay(at(5, 8, 30), time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 5, 23, 59, 59, int(999*time.Millisecond), time.UTC), eod)
}

func TestAttributeTime_QuizWindows(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())
	assessments := []models.Assessment{
		assessment(2, quizID, "Quiz 2", day(10), "90"),
		assessment(1, quizID, "Quiz 1", day(5), "80"),
	}
	sessions := []models.StudySession{
		session(1, at(3, 10, 0), 3600),
		session(2, at(7, 10, 0), 3600),
		session(3, at(9, 10, 0), 3600),
	}

	got := engine.AttributeTime(assessments, sessions, quizExam)

	require.Len(t, got, 2)
	assert.Equal(t, "Quiz 1", got[0].Name)
	assert.Equal(t, int64(3600), got[0].CalculatedTimeSeconds)
	assert.Equal(t, "Quiz", got[0].CategoryName)
	assert.Equal(t, "Quiz 2", got[1].Name)
	assert.Equal(t, int64(7200), got[1].CalculatedTimeSeconds)
}

func TestAttributeTime_EndOfDayBoundary(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())
	assessments := []models.Assessment{
		assessment(1, quizID, "Quiz 1", day(5), "80"),
		assessment(2, quizID, "Quiz 2", day(6), "80"),
	}
	sessions := []models.StudySession{
		session(1, time.Date(2024, time.March, 5, 23, 59, 59, int(500*time.Millisecond), time.UTC), 60),
		session(2, at(6, 0, 0), 120),
	}

	got := engine.AttributeTime(assessments, sessions, quizExam)

	require.Len(t, got, 2)
	assert.Equal(t, int64(60), got[0].CalculatedTimeSeconds, "session late on the assessment day belongs to it")
	assert.Equal(t, int64(120), got[1].CalculatedTimeSeconds, "midnight session belongs to the next window")
}

func TestAttributeTime_SameDayAssessmentsDoNotDoubleCount(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())
	assessments := []models.Assessment{
		assessment(1, quizID, "Quiz A", day(5), "80"),
		assessment(2, quizID, "Quiz B", day(5), "70"),
	}
	sessions := []models.StudySession{session(1, at(4, 9, 0), 1800)}

	got := engine.AttributeTime(assessments, sessions, quizExam)

	require.Len(t, got, 2)
	assert.Equal(t, int64(1800), got[0].CalculatedTimeSeconds)
	assert.Equal(t, int64(0), got[1].CalculatedTimeSeconds)
}

func TestAttributeTime_CategoriesAreIndependent(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())
	assessments := []models.Assessment{
		assessment(1, quizID, "Quiz 1", day(5), "80"),
		assessment(2, examID, "Midterm", day(12), "75"),
	}
	sessions := []models.StudySession{
		session(1, at(3, 10, 0), 3600),
		session(2, at(8, 10, 0), 1800),
	}

	got := engine.AttributeTime(assessments, sessions, quizExam)

	require.Len(t, got, 2)
	assert.Equal(t, "Quiz 1", got[0].Name)
	assert.Equal(t, int64(3600), got[0].CalculatedTimeSeconds)
	assert.Equal(t, "Midterm", got[1].Name)
	assert.Equal(t, int64(5400), got[1].CalculatedTimeSeconds, "exam window starts at the beginning of time")
}

func TestAttributeTime_PartitionsSessionsWithinCategory(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())
	assessments := []models.Assessment{
		assessment(1, quizID, "Quiz 1", day(4), "80"),
		assessment(2, quizID, "Quiz 2", day(11), "85"),
		assessment(3, quizID, "Quiz 3", day(20), "90"),
	}

	var sessions []models.StudySession
	var expected int64
	for d := 1; d <= 28; d++ {
		dur := int64(600 * d)
		sessions = append(sessions, session(int64(d), at(d, 18, 0), dur))
		if d <= 20 {
			expected += dur
		}
	}

	got := engine.AttributeTime(assessments, sessions, quizExam)

	var total int64
	for _, r := range got {
		total += r.CalculatedTimeSeconds
	}
	assert.Equal(t, expected, total, "every session up to the last cutoff is attributed exactly once")
}

func TestAttributeTime_Location(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	engine := analytics.New(analytics.Config{Location: est})
	assessments := []models.Assessment{assessment(1, quizID, "Quiz 1", day(5), "80")}
	// 03:00 UTC on the 6th is still the evening of the 5th in EST.
	sessions := []models.StudySession{session(1, at(6, 3, 0), 900)}

	got := engine.AttributeTime(assessments, sessions, quizExam)

	require.Len(t, got, 1)
	assert.Equal(t, int64(900), got[0].CalculatedTimeSeconds)
}

func TestAttributeTime_Empty(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())

	assert.Empty(t, engine.AttributeTime(nil, []models.StudySession{session(1, at(1, 1, 0), 60)}, quizExam))

	got := engine.AttributeTime([]models.Assessment{assessment(1, quizID, "Quiz 1", day(5), "")}, nil, quizExam)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].CalculatedTimeSeconds)
}

func TestAttributeTime_DoesNotMutateInput(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())
	assessments := []models.Assessment{
		assessment(2, quizID, "Quiz 2", day(10), "90"),
		assessment(1, quizID, "Quiz 1", day(5), "80"),
	}
	sessions := []models.StudySession{
		session(2, at(9, 10, 0), 3600),
		session(1, at(3, 10, 0), 3600),
	}

	engine.AttributeTime(assessments, sessions, quizExam)

	assert.Equal(t, int64(2), assessments[0].ID)
	assert.Equal(t, int64(2), sessions[0].ID)
}
