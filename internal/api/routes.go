package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	timeout := s.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(corsMiddleware(s.AllowedOrigin))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(timeout))

		r.Get("/semesters", s.handleListSemesters)
		r.Post("/semesters", s.handleCreateSemester)
		r.Put("/semesters/{id}", s.handleUpdateSemester)
		r.Delete("/semesters/{id}", s.handleDeleteSemester)
		r.Get("/semesters/{id}/totals", s.handleSemesterTotals)

		r.Get("/subjects", s.handleListSubjects)
		r.Post("/subjects", s.handleCreateSubject)
		r.Get("/subjects/{id}", s.handleGetSubject)
		r.Delete("/subjects/{id}", s.handleDeleteSubject)
		r.Put("/subjects/{id}/config", s.handleUpdateSubjectConfig)
		r.Get("/subjects/{id}/categories", s.handleListCategories)
		r.Post("/subjects/{id}/categories", s.handleCreateCategory)
		r.Get("/subjects/{id}/assessments/enriched", s.handleEnrichedAssessments)
		r.Get("/subjects/{id}/analytics", s.handleAnalytics)
		r.Get("/subjects/{id}/report", s.handleReport)

		r.Put("/categories/{id}", s.handleUpdateCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)

		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleLogSession)

		r.Get("/assessments", s.handleListAssessments)
		r.Post("/assessments", s.handleCreateAssessment)
		r.Put("/assessments/{id}", s.handleUpdateAssessment)
		r.Delete("/assessments/{id}", s.handleDeleteAssessment)

		r.Get("/grades", s.handleListGrades)
		r.Post("/grades", s.handleCreateGrade)
		r.Put("/grades/{id}", s.handleUpdateGrade)
		r.Delete("/grades/{id}", s.handleDeleteGrade)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNoRoute)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errMethodNotAllowed)
	})
	return r
}
