package analytics

import (
	"strings"

	"github.com/vytor/studytracker/internal/models"
)

// EnrichedAssessments runs time attribution and per-assessment metrics.
func (e *Engine) EnrichedAssessments(assessments []models.Assessment, sessions []models.StudySession, categories []models.Category) []models.EnrichedAssessment {
	return e.EnrichMetrics(e.AttributeTime(assessments, sessions, categories))
}

// Compute runs the whole pipeline for one subject snapshot.
func (e *Engine) Compute(snap models.SubjectSnapshot, target float64) models.SubjectReport {
	records := e.EnrichedAssessments(snap.Assessments, snap.Sessions, snap.Categories)
	metrics := e.Analyze(records)
	items := e.GradedItems(records, snap.GradeEntries)

	grade := e.GradeReport(snap.Categories, snap.Weights, items, target, metrics.Prediction)
	grade.ExamsRemaining = examsRemaining(snap.Subject.TotalExams, records)

	return models.SubjectReport{
		SubjectID:   snap.Subject.ID,
		Assessments: records,
		Analytics:   metrics,
		Grade:       grade,
	}
}

func examsRemaining(total int, records []models.EnrichedAssessment) int {
	done := 0
	for _, r := range records {
		if r.Graded && strings.EqualFold(r.CategoryName, models.ExamCategory) {
			done++
		}
	}
	if done >= total {
		return 0
	}
	return total - done
}
