package api

import (
	"net/http"

	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/models"
)

type subjectRequest struct {
	SemesterID  int64   `json:"semester_id"`
	Name        string  `json:"name"`
	TotalExams  int     `json:"total_exams"`
	TargetGrade float64 `json:"target_grade"`
}

type categoryRequest struct {
	Name   *string  `json:"name"`
	Weight *float64 `json:"weight"`
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	semesterID, err := queryID(r, "semesterId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	subjects, err := s.Subjects.ListSubjects(r.Context(), semesterID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, subjects)
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	subject, err := s.Subjects.CreateSubject(r.Context(), models.Subject{
		SemesterID:  req.SemesterID,
		Name:        req.Name,
		TotalExams:  req.TotalExams,
		TargetGrade: req.TargetGrade,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, subject)
}

func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	subject, err := s.Subjects.GetSubject(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, subject)
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Subjects.DeleteSubject(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateSubjectConfig(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var cfg models.SubjectConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		handleError(w, r, err)
		return
	}
	subject, err := s.Subjects.UpdateConfig(r.Context(), id, cfg)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, subject)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Subjects.GetSubject(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	categories, err := s.Subjects.ListCategories(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Name == nil {
		handleError(w, r, errors.NewValidationError("name", "is required"))
		return
	}
	var weight float64
	if req.Weight != nil {
		weight = *req.Weight
	}
	category, err := s.Subjects.AddCategory(r.Context(), id, *req.Name, weight)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, category)
}

// handleUpdateCategory renames a category and/or changes its weight.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Name == nil && req.Weight == nil {
		handleError(w, r, errors.NewBadRequestError("nothing to update"))
		return
	}

	var category *models.Category
	if req.Name != nil {
		if category, err = s.Subjects.RenameCategory(r.Context(), id, *req.Name); err != nil {
			handleError(w, r, err)
			return
		}
	}
	if req.Weight != nil {
		if category, err = s.Subjects.SetCategoryWeight(r.Context(), id, *req.Weight); err != nil {
			handleError(w, r, err)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Subjects.DeleteCategory(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
