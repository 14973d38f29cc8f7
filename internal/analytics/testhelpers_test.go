package analytics_test

import (
	"time"

	"github.com/vytor/studytracker/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour, min int) time.Time {
	return time.Date(2024, time.March, d, hour, min, 0, 0, time.UTC)
}

func session(id int64, start time.Time, seconds int64) models.StudySession {
	return models.StudySession{
		ID:              id,
		SubjectID:       1,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(seconds) * time.Second),
		DurationSeconds: seconds,
	}
}

func assessment(id, categoryID int64, name string, date time.Time, grade string) models.Assessment {
	return models.Assessment{
		ID:         id,
		SubjectID:  1,
		CategoryID: categoryID,
		Name:       name,
		Date:       date,
		Grade:      grade,
	}
}

const (
	quizID = int64(10)
	examID = int64(20)
)

var quizExam = []models.Category{
	{ID: examID, SubjectID: 1, Name: "Exam", Weight: 80},
	{ID: quizID, SubjectID: 1, Name: "Quiz", Weight: 20, Position: 1},
}
