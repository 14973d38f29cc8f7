package api

import (
	"net/http"

	"github.com/vytor/studytracker/internal/models"
)

type assessmentRequest struct {
	SubjectID  int64       `json:"subject_id"`
	CategoryID int64       `json:"category_id"`
	Name       string      `json:"name"`
	Date       string      `json:"date"`
	Grade      looseString `json:"grade"`
}

func (req assessmentRequest) toModel() (models.Assessment, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return models.Assessment{}, err
	}
	return models.Assessment{
		SubjectID:  req.SubjectID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Date:       date,
		Grade:      string(req.Grade),
	}, nil
}

type gradeRequest struct {
	SubjectID   int64   `json:"subject_id"`
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	TotalPoints float64 `json:"total_points"`
}

func (req gradeRequest) toModel() models.GradeEntry {
	return models.GradeEntry{
		SubjectID:   req.SubjectID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Score:       req.Score,
		TotalPoints: req.TotalPoints,
	}
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	subjectID, err := queryID(r, "subjectId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	assessments, err := s.Assessments.ListAssessments(r.Context(), subjectID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assessments)
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	a, err := req.toModel()
	if err != nil {
		handleError(w, r, err)
		return
	}
	created, err := s.Assessments.CreateAssessment(r.Context(), a)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req assessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	a, err := req.toModel()
	if err != nil {
		handleError(w, r, err)
		return
	}
	a.ID = id
	updated, err := s.Assessments.UpdateAssessment(r.Context(), a)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Assessments.DeleteAssessment(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	subjectID, err := queryID(r, "subjectId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	entries, err := s.Grades.ListGrades(r.Context(), subjectID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	created, err := s.Grades.CreateGrade(r.Context(), req.toModel())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req gradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	entry := req.toModel()
	entry.ID = id
	updated, err := s.Grades.UpdateGrade(r.Context(), entry)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Grades.DeleteGrade(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
