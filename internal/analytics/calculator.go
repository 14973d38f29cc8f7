package analytics

import (
	"math"

	"github.com/vytor/studytracker/internal/models"
)

// weightEpsilon absorbs float noise when weights are summed (33.3+33.3+33.4).
const weightEpsilon = 1e-9

// GradedItems normalizes graded assessments and grade entries into
// percentages. Ungraded assessments and entries without positive total points
// are left out.
func (e *Engine) GradedItems(records []models.EnrichedAssessment, entries []models.GradeEntry) []models.GradedItem {
	items := make([]models.GradedItem, 0, len(records)+len(entries))
	for _, r := range records {
		if !r.Graded {
			continue
		}
		items = append(items, models.GradedItem{
			Name:       r.Name,
			CategoryID: r.CategoryID,
			Percentage: r.NumericGrade,
		})
	}
	for _, g := range entries {
		pct, ok := g.Percentage()
		if !ok {
			continue
		}
		items = append(items, models.GradedItem{
			Name:       g.Name,
			CategoryID: g.CategoryID,
			Percentage: pct,
		})
	}
	return items
}

// GradeReport computes the weighted grade for the graded items and
// back-solves the score needed on the remaining weight to reach target.
//
// Only categories with at least one item count toward the weight in use, so
// CurrentGrade is normalized as if the ungraded categories did not exist.
// RemainingWeight is 100 minus the weight in use and is not clamped.
// RequiredScore is 0 when no weight remains. PredictedHours inverts the
// prediction line at RequiredScore, floored at 0; without a usable line it
// is 0 and HasRegression is false.
func (e *Engine) GradeReport(categories []models.Category, weights models.Weights, items []models.GradedItem, target float64, prediction *models.Prediction) models.GradeReport {
	byCategory := make(map[int64][]float64, len(categories))
	for _, it := range items {
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it.Percentage)
	}

	report := models.GradeReport{
		TargetGrade: target,
		Categories:  make([]models.CategoryResult, 0, len(categories)),
	}

	var absolute, weightUsed float64
	for _, c := range categories {
		weight := weights[c.ID]
		result := models.CategoryResult{
			CategoryID: c.ID,
			Name:       c.Name,
			Weight:     weight,
		}
		pcts := byCategory[c.ID]
		if len(pcts) > 0 {
			avg := mean(pcts)
			points := avg / 100 * weight
			absolute += points
			weightUsed += weight

			result.Items = len(pcts)
			result.Average = round(avg, 2)
			result.WeightedPoints = round(points, 2)
		}
		report.Categories = append(report.Categories, result)
	}

	var current float64
	if weightUsed > weightEpsilon {
		current = absolute / weightUsed * 100
	}

	remaining := 100 - weightUsed
	var required float64
	if math.Abs(remaining) > weightEpsilon {
		required = (target - absolute) / (remaining / 100)
	} else {
		remaining = 0
	}

	hours, ok := HoursFor(prediction, required)
	if hours < 0 {
		hours = 0
	}

	report.CurrentGrade = round(current, 2)
	report.AbsoluteScore = round(absolute, 2)
	report.RemainingWeight = round(remaining, 2)
	report.RequiredScore = round(required, 2)
	report.PredictedHours = round(hours, 2)
	report.HasRegression = ok
	return report
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
