package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studytracker/internal/analytics"
	"github.com/vytor/studytracker/internal/api"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository/sqlite"
	"github.com/vytor/studytracker/internal/services"
	"github.com/vytor/studytracker/internal/testutil"
)

const testOrigin = "http://localhost:3000"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	conn := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, conn) })

	deps := services.AnalyticsDeps{
		Subjects:     sqlite.NewSubjectRepository(conn),
		Categories:   sqlite.NewCategoryRepository(conn),
		Sessions:     sqlite.NewSessionRepository(conn),
		Assessments:  sqlite.NewAssessmentRepository(conn),
		GradeEntries: sqlite.NewGradeEntryRepository(conn),
	}
	analyticsSvc, err := services.NewAnalyticsService(deps, analytics.DefaultConfig(), 90, 16)
	require.NoError(t, err)
	notifier := services.NewChangeNotifier(analyticsSvc, nil)

	semesters := services.NewSemesterService(sqlite.NewSemesterRepository(conn))
	subjects := services.NewSubjectService(deps.Subjects, deps.Categories, semesters, notifier, 90)

	srv := &api.Server{
		Semesters:     semesters,
		Subjects:      subjects,
		Sessions:      services.NewSessionService(deps.Sessions, subjects, notifier),
		Assessments:   services.NewAssessmentService(deps.Assessments, deps.Categories, notifier),
		Grades:        services.NewGradeService(deps.GradeEntries, deps.Categories, notifier),
		Analytics:     analyticsSvc,
		DB:            conn,
		AllowedOrigin: testOrigin,
	}
	return srv.Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestAPI_StudyFlow(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/semesters", map[string]any{"name": "Spring 2024"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	semester := decode[models.Semester](t, rec)

	rec = do(t, h, http.MethodPost, "/api/subjects", map[string]any{"semester_id": semester.ID, "name": "Calculus", "total_exams": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	subject := decode[models.Subject](t, rec)
	assert.Equal(t, 90.0, subject.TargetGrade)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/subjects/%d/categories", subject.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]models.Category](t, rec)
	require.Len(t, categories, 1)
	exam := categories[0]

	rec = do(t, h, http.MethodPost, fmt.Sprintf("/api/subjects/%d/categories", subject.ID), map[string]any{"name": "Quiz"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	quiz := decode[models.Category](t, rec)

	rec = do(t, h, http.MethodPut, fmt.Sprintf("/api/subjects/%d/config", subject.ID), map[string]any{
		"weights": map[string]float64{fmt.Sprint(exam.ID): 50, fmt.Sprint(quiz.ID): 30},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, s := range []map[string]any{
		{"subject_id": subject.ID, "start_time": "2024-03-01T10:00:00Z", "end_time": "2024-03-01T11:00:00Z"},
		{"subject_id": subject.ID, "start_time": "2024-03-04T10:00:00Z", "end_time": "2024-03-04T12:00:00Z"},
	} {
		rec = do(t, h, http.MethodPost, "/api/sessions", s)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	for _, a := range []map[string]any{
		{"subject_id": subject.ID, "category_id": quiz.ID, "name": "Q1", "date": "2024-03-02", "grade": 80},
		{"subject_id": subject.ID, "category_id": quiz.ID, "name": "Q2", "date": "2024-03-05", "grade": "90%"},
	} {
		rec = do(t, h, http.MethodPost, "/api/assessments", a)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/subjects/%d/assessments/enriched", subject.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	enriched := decode[[]models.EnrichedAssessment](t, rec)
	require.Len(t, enriched, 2)
	assert.Equal(t, "Quiz", enriched[0].CategoryName)
	assert.Equal(t, 1.0, enriched[0].Hours)
	assert.Equal(t, 2.0, enriched[1].Hours)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/subjects/%d/analytics", subject.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	metrics := decode[models.Analytics](t, rec)
	require.NotNil(t, metrics.Prediction)
	assert.InDelta(t, 10.0, metrics.Prediction.Slope, 1e-9)
	assert.InDelta(t, 70.0, metrics.Prediction.Intercept, 1e-9)

	// Only the quiz weight (30) is in use; the other 70 points are still open.
	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/subjects/%d/report?target=90", subject.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grade := decode[models.GradeReport](t, rec)
	assert.InDelta(t, 85.0, grade.CurrentGrade, 1e-9)
	assert.InDelta(t, 70.0, grade.RemainingWeight, 1e-9)
	assert.InDelta(t, 92.14, grade.RequiredScore, 1e-9)
	assert.True(t, grade.HasRegression)
	assert.Equal(t, 2, grade.ExamsRemaining)

	// Renaming keeps every assessment attached to the category.
	rec = do(t, h, http.MethodPut, fmt.Sprintf("/api/categories/%d", quiz.ID), map[string]any{"name": "Pop Quiz"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/subjects/%d/assessments/enriched", subject.ID), nil)
	enriched = decode[[]models.EnrichedAssessment](t, rec)
	assert.Equal(t, "Pop Quiz", enriched[0].CategoryName)

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/categories/%d", quiz.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/semesters/%d/totals", semester.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decode[models.SemesterTotals](t, rec)
	assert.Equal(t, int64(3*3600), totals.TotalSeconds)
}

func TestAPI_GradeEntries(t *testing.T) {
	h := newTestServer(t)

	semester := decode[models.Semester](t, do(t, h, http.MethodPost, "/api/semesters", map[string]any{"name": "Fall"}))
	subject := decode[models.Subject](t, do(t, h, http.MethodPost, "/api/subjects", map[string]any{"semester_id": semester.ID, "name": "Art"}))
	categories := decode[[]models.Category](t, do(t, h, http.MethodGet, fmt.Sprintf("/api/subjects/%d/categories", subject.ID), nil))

	rec := do(t, h, http.MethodPost, "/api/grades", map[string]any{"subject_id": subject.ID, "category_id": categories[0].ID, "name": "Portfolio", "score": 45, "total_points": 50})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[models.GradeEntry](t, rec)

	rec = do(t, h, http.MethodPost, "/api/grades", map[string]any{"subject_id": subject.ID, "category_id": categories[0].ID, "name": "Bad", "score": 1, "total_points": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/grades?subjectId=%d", subject.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.GradeEntry](t, rec), 1)

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/grades/%d", entry.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAPI_Errors(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown subject", http.MethodGet, "/api/subjects/999", nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad id", http.MethodGet, "/api/subjects/abc", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"missing semester filter", http.MethodGet, "/api/subjects", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown field", http.MethodPost, "/api/semesters", map[string]any{"title": "x"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"empty name", http.MethodPost, "/api/semesters", map[string]any{"name": ""}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad target", http.MethodGet, "/api/subjects/1/report?target=high", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"no route", http.MethodGet, "/api/nowhere", nil, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.code, decode[errorBody](t, rec).Error.Code)
		})
	}
}

func TestAPI_HealthAndHeaders(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = do(t, h, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/semesters", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, testOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
}

type downDB struct{}

func (downDB) PingContext(context.Context) error { return errors.New("database is locked") }

func TestAPI_ReadyWhenDatabaseDown(t *testing.T) {
	srv := &api.Server{DB: downDB{}}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
