package models

import "time"

// EnrichedAssessment is an Assessment plus the study time attributed to it.
// It is derived on every recomputation and never persisted.
type EnrichedAssessment struct {
	Assessment
	CategoryName          string  `json:"category_name"`
	CalculatedTimeSeconds int64   `json:"calculated_time_seconds"`
	Hours                 float64 `json:"hours"`
	NumericGrade          float64 `json:"numeric_grade"`
	Graded                bool    `json:"graded"`
	Efficiency            float64 `json:"efficiency"`
}

type ScatterPoint struct {
	Hours float64 `json:"hours"`
	Grade float64 `json:"grade"`
	Label string  `json:"label"`
}

type EfficiencyPoint struct {
	Name       string  `json:"name"`
	Efficiency float64 `json:"efficiency"`
}

// Prediction is a least-squares line grade = Slope*hours + Intercept.
type Prediction struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Points    int     `json:"points"`
	RSquared  float64 `json:"r_squared"`
}

// PredictGrade evaluates the line at hours.
func (p Prediction) PredictGrade(hours float64) float64 {
	return p.Slope*hours + p.Intercept
}

type Analytics struct {
	ScatterSeries     []ScatterPoint    `json:"scatter_series"`
	EfficiencySeries  []EfficiencyPoint `json:"efficiency_series"`
	AverageEfficiency float64           `json:"average_efficiency"`
	Prediction        *Prediction       `json:"prediction"`
}

// GradedItem is an assessment or grade entry normalized to a percentage.
type GradedItem struct {
	Name       string  `json:"name"`
	CategoryID int64   `json:"category_id"`
	Percentage float64 `json:"percentage"`
}

type CategoryResult struct {
	CategoryID     int64   `json:"category_id"`
	Name           string  `json:"name"`
	Weight         float64 `json:"weight"`
	Items          int     `json:"items"`
	Average        float64 `json:"average"`
	WeightedPoints float64 `json:"weighted_points"`
}

// GradeReport is the weighted grade calculation for one target grade.
type GradeReport struct {
	TargetGrade     float64          `json:"target_grade"`
	CurrentGrade    float64          `json:"current_grade"`
	AbsoluteScore   float64          `json:"absolute_score"`
	RequiredScore   float64          `json:"required_score"`
	RemainingWeight float64          `json:"remaining_weight"`
	PredictedHours  float64          `json:"predicted_hours"`
	HasRegression   bool             `json:"has_regression"`
	ExamsRemaining  int              `json:"exams_remaining"`
	Categories      []CategoryResult `json:"categories"`
}

// SubjectSnapshot holds every input the engine reads for one subject, as
// loaded at a single point in time.
type SubjectSnapshot struct {
	Subject      Subject
	Categories   []Category
	Weights      Weights
	Sessions     []StudySession
	Assessments  []Assessment
	GradeEntries []GradeEntry
}

type SubjectReport struct {
	SubjectID   int64                `json:"subject_id"`
	Assessments []EnrichedAssessment `json:"assessments"`
	Analytics   Analytics            `json:"analytics"`
	Grade       GradeReport          `json:"grade"`
	ComputedAt  time.Time            `json:"computed_at"`
}
