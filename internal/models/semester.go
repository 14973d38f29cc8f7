package models

import "time"

type Semester struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

type Subject struct {
	ID          int64     `json:"id"`
	SemesterID  int64     `json:"semester_id"`
	Name        string    `json:"name"`
	TotalExams  int       `json:"total_exams"`
	TargetGrade float64   `json:"target_grade"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExamCategory is created with every subject and cannot be removed.
const ExamCategory = "Exam"

// Category is an assignment type: a named weight bucket used for both
// weighting and time attribution. Records reference it by ID, so the name is
// only a display attribute.
type Category struct {
	ID        int64   `json:"id"`
	SubjectID int64   `json:"subject_id"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Position  int     `json:"position"`
}

// Weights maps a category ID to its weight in percentage points.
type Weights map[int64]float64

// SubjectConfig is the payload for updating a subject's grading setup.
type SubjectConfig struct {
	Weights     Weights  `json:"weights"`
	TotalExams  *int     `json:"total_exams,omitempty"`
	TargetGrade *float64 `json:"target_grade,omitempty"`
}
