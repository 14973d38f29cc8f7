package api

import (
	"context"
	"time"

	"github.com/vytor/studytracker/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Semesters   services.SemesterService
	Subjects    services.SubjectService
	Sessions    services.SessionService
	Assessments services.AssessmentService
	Grades      services.GradeService
	Analytics   services.AnalyticsService

	DB             Pinger
	AllowedOrigin  string
	RequestTimeout time.Duration
}
