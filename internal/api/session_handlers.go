package api

import (
	"net/http"
	"time"

	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/models"
)

type sessionRequest struct {
	SemesterID      int64     `json:"semester_id"`
	SubjectID       int64     `json:"subject_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	semesterID, err := queryID(r, "semesterId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	subjectID, err := queryID(r, "subjectId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if semesterID == 0 && subjectID == 0 {
		handleError(w, r, errors.NewValidationError("semesterId", "semesterId or subjectId is required"))
		return
	}
	sessions, err := s.Sessions.ListSessions(r.Context(), models.SessionFilter{SemesterID: semesterID, SubjectID: subjectID})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessions)
}

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.Sessions.LogSession(r.Context(), models.StudySession{
		SemesterID:      req.SemesterID,
		SubjectID:       req.SubjectID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, session)
}
