package api

import (
	"net/http"
)

type semesterRequest struct {
	Name string `json:"name"`
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

func (s *Server) handleListSemesters(w http.ResponseWriter, r *http.Request) {
	includeArchived, err := queryBool(r, "archived")
	if err != nil {
		handleError(w, r, err)
		return
	}
	semesters, err := s.Semesters.ListSemesters(r.Context(), includeArchived)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, semesters)
}

func (s *Server) handleCreateSemester(w http.ResponseWriter, r *http.Request) {
	var req semesterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	semester, err := s.Semesters.CreateSemester(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, semester)
}

func (s *Server) handleUpdateSemester(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req archiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Semesters.SetArchived(r.Context(), id, req.Archived); err != nil {
		handleError(w, r, err)
		return
	}
	semester, err := s.Semesters.GetSemester(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, semester)
}

func (s *Server) handleDeleteSemester(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Semesters.DeleteSemester(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSemesterTotals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.Semesters.GetSemester(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	totals, err := s.Sessions.SemesterTotals(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, totals)
}
