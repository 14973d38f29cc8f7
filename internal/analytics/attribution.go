package analytics

import (
	"sort"
	"time"

	"github.com/vytor/studytracker/internal/models"
)

// EndOfDay returns the last millisecond of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// AttributeTime assigns study time to assessments. Within each category the
// assessments are ordered by date and each one receives the sessions that
// started after the previous assessment's end of day and no later than its
// own end of day; the first one reaches back to the beginning of time.
// Categories are independent, so one session may count once per category.
//
// sessions must already be limited to the assessments' subject. The result
// holds every assessment sorted by date (ties by ID) with CalculatedTimeSeconds
// and CategoryName set; the grade/efficiency fields are left for
// EnrichMetrics.
func (e *Engine) AttributeTime(assessments []models.Assessment, sessions []models.StudySession, categories []models.Category) []models.EnrichedAssessment {
	if len(assessments) == 0 {
		return []models.EnrichedAssessment{}
	}

	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	ordered := make([]models.StudySession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	byCategory := make(map[int64][]models.Assessment)
	var categoryOrder []int64
	for _, a := range assessments {
		if _, ok := byCategory[a.CategoryID]; !ok {
			categoryOrder = append(categoryOrder, a.CategoryID)
		}
		byCategory[a.CategoryID] = append(byCategory[a.CategoryID], a)
	}

	out := make([]models.EnrichedAssessment, 0, len(assessments))
	for _, categoryID := range categoryOrder {
		group := byCategory[categoryID]
		sortByDate(group)

		// Windows are contiguous, so one forward pass over the ordered
		// sessions covers the whole category.
		next := 0
		for _, a := range group {
			cutoff := EndOfDay(a.Date, e.cfg.Location)
			var total int64
			for next < len(ordered) && !ordered[next].StartTime.After(cutoff) {
				total += ordered[next].DurationSeconds
				next++
			}
			out = append(out, models.EnrichedAssessment{
				Assessment:            a,
				CategoryName:          names[categoryID],
				CalculatedTimeSeconds: total,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortByDate(as []models.Assessment) {
	sort.SliceStable(as, func(i, j int) bool {
		if !as[i].Date.Equal(as[j].Date) {
			return as[i].Date.Before(as[j].Date)
		}
		return as[i].ID < as[j].ID
	})
}
