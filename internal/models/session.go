package models

import "time"

type StudySession struct {
	ID              int64     `json:"id"`
	SemesterID      int64     `json:"semester_id"`
	SubjectID       int64     `json:"subject_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
}

type SessionFilter struct {
	SemesterID int64
	SubjectID  int64
	From       *time.Time
	To         *time.Time
}

// SubjectTotal is the total study time logged for one subject.
type SubjectTotal struct {
	SubjectID    int64  `json:"subject_id"`
	SubjectName  string `json:"subject_name"`
	TotalSeconds int64  `json:"total_seconds"`
}

type SemesterTotals struct {
	SemesterID   int64          `json:"semester_id"`
	Subjects     []SubjectTotal `json:"subjects"`
	TotalSeconds int64          `json:"total_seconds"`
}
