package analytics

import (
	"github.com/vytor/studytracker/internal/models"
)

const secondsPerHour = 3600.0

// EnrichMetrics fills Hours, NumericGrade, Graded and Efficiency on each
// record. The input slice is not modified.
func (e *Engine) EnrichMetrics(records []models.EnrichedAssessment) []models.EnrichedAssessment {
	out := make([]models.EnrichedAssessment, len(records))
	for i, r := range records {
		grade, parsed := ParseGrade(r.Grade)
		r.Hours = round(float64(r.CalculatedTimeSeconds)/secondsPerHour, 1)
		r.NumericGrade = grade
		r.Graded = e.isGraded(grade, parsed)
		r.Efficiency = 0
		if r.Hours > 0 {
			r.Efficiency = round(grade/r.Hours, 1)
		}
		out[i] = r
	}
	return out
}

// Analyze builds the scatter and efficiency series over graded records, their
// mean efficiency and the regression fit. Ungraded records never appear in
// the output; graded records with zero hours do, with efficiency 0.
func (e *Engine) Analyze(records []models.EnrichedAssessment) models.Analytics {
	result := models.Analytics{
		ScatterSeries:    []models.ScatterPoint{},
		EfficiencySeries: []models.EfficiencyPoint{},
	}

	var sum float64
	var points []Point
	for _, r := range records {
		if !r.Graded {
			continue
		}
		result.ScatterSeries = append(result.ScatterSeries, models.ScatterPoint{
			Hours: r.Hours,
			Grade: r.NumericGrade,
			Label: r.Name,
		})
		result.EfficiencySeries = append(result.EfficiencySeries, models.EfficiencyPoint{
			Name:       r.Name,
			Efficiency: r.Efficiency,
		})
		sum += r.Efficiency
		if r.Hours > 0 {
			points = append(points, Point{X: r.Hours, Y: r.NumericGrade})
		}
	}

	if n := len(result.EfficiencySeries); n > 0 {
		result.AverageEfficiency = round(sum/float64(n), 1)
	}
	result.Prediction = Fit(points)
	return result
}
