package api

import (
	"net/http"
)

func (s *Server) handleEnrichedAssessments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	records, err := s.Analytics.EnrichedAssessments(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, records)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	metrics, err := s.Analytics.Analytics(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, metrics)
}

// handleReport returns the grade report; ?target= overrides the subject's
// target grade for this request only.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	target, err := queryFloat(r, "target")
	if err != nil {
		handleError(w, r, err)
		return
	}
	grade, err := s.Analytics.GradeReport(r.Context(), id, target)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, grade)
}
