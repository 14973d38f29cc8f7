package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studytracker/internal/db"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository/sqlite"
	"github.com/vytor/studytracker/internal/services"
)

// seed creates one semester with one subject, a session and a graded quiz.
func seed(t *testing.T, path string) (semesterID, subjectID int64) {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(ctx, path)
	require.NoError(t, err)
	defer database.Close()

	subjectRepo := sqlite.NewSubjectRepository(database.DB)
	categoryRepo := sqlite.NewCategoryRepository(database.DB)
	semesters := services.NewSemesterService(sqlite.NewSemesterRepository(database.DB))
	subjects := services.NewSubjectService(subjectRepo, categoryRepo, semesters, nil, 90)
	sessions := services.NewSessionService(sqlite.NewSessionRepository(database.DB), subjects, nil)
	assessments := services.NewAssessmentService(sqlite.NewAssessmentRepository(database.DB), categoryRepo, nil)

	semester, err := semesters.CreateSemester(ctx, "Spring")
	require.NoError(t, err)
	subject, err := subjects.CreateSubject(ctx, models.Subject{SemesterID: semester.ID, Name: "Calculus", TotalExams: 1})
	require.NoError(t, err)
	categories, err := subjects.ListCategories(ctx, subject.ID)
	require.NoError(t, err)
	_, err = subjects.SetCategoryWeight(ctx, categories[0].ID, 100)
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	_, err = sessions.LogSession(ctx, models.StudySession{SubjectID: subject.ID, StartTime: start, EndTime: start.Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = assessments.CreateAssessment(ctx, models.Assessment{
		SubjectID:  subject.ID,
		CategoryID: categories[0].ID,
		Name:       "Midterm",
		Date:       time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Grade:      "76",
	})
	require.NoError(t, err)
	return semester.ID, subject.ID
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	a := newApp()
	a.Writer = &buf
	require.NoError(t, a.Run(append([]string{"studyreport", "--no-color"}, args...)))
	return buf.String()
}

func TestStudyReport(t *testing.T) {
	t.Cleanup(pterm.EnableStyling)
	t.Setenv("TIMEZONE", "UTC")
	path := filepath.Join(t.TempDir(), "study.db")
	semesterID, subjectID := seed(t, path)

	out := run(t, "--db", path, "semesters")
	assert.Contains(t, out, "Calculus (#"+fmt.Sprint(subjectID)+")")

	out = run(t, "--db", path, "report", "--subject", fmt.Sprint(subjectID), "--target", "80")
	assert.Contains(t, out, "Calculus (target 80)")
	assert.Contains(t, out, "Midterm")
	assert.Contains(t, out, "Current grade:     76")
	assert.Contains(t, out, "nothing left to grade")

	out = run(t, "--db", path, "analytics", "--subject", fmt.Sprint(subjectID))
	assert.Contains(t, out, "Average efficiency: 38")

	out = run(t, "--db", path, "totals", "--semester", fmt.Sprint(semesterID))
	assert.Contains(t, out, "2h 00m")
}

func TestStudyReport_UnknownSubject(t *testing.T) {
	t.Cleanup(pterm.EnableStyling)
	path := filepath.Join(t.TempDir(), "study.db")
	seed(t, path)

	a := newApp()
	a.Writer = &bytes.Buffer{}
	err := a.Run([]string{"studyreport", "--db", path, "report", "--subject", "999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
