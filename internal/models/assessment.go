package models

import "time"

// Assessment is a dated, graded event (exam, quiz...) in one category.
// Grade is free text as entered; it may be empty or non-numeric.
type Assessment struct {
	ID         int64     `json:"id"`
	SubjectID  int64     `json:"subject_id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	Grade      string    `json:"grade"`
}

type AssessmentFilter struct {
	SubjectID  int64
	CategoryID int64
	From       *time.Time
	To         *time.Time
}

// GradeEntry is a manually recorded score.
type GradeEntry struct {
	ID          int64   `json:"id"`
	SubjectID   int64   `json:"subject_id"`
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	TotalPoints float64 `json:"total_points"`
}

// Percentage normalizes the entry to 0-100. ok is false when TotalPoints is
// not positive.
func (g GradeEntry) Percentage() (pct float64, ok bool) {
	if g.TotalPoints <= 0 {
		return 0, false
	}
	return g.Score / g.TotalPoints * 100, true
}
