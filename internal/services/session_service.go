package services

import (
	"context"

	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

// SessionService handles logging and summarizing study sessions
type SessionService interface {
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	LogSession(ctx context.Context, session models.StudySession) (*models.StudySession, error)
	SemesterTotals(ctx context.Context, semesterID int64) (*models.SemesterTotals, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	subjects    SubjectService
	notifier    ChangeNotifier
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo repository.SessionRepository, subjects SubjectService, notifier ChangeNotifier) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		subjects:    subjects,
		notifier:    notifierOrNop(notifier),
	}
}

func (s *sessionService) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing sessions: semester_id=%d, subject_id=%d", filter.SemesterID, filter.SubjectID)

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if sessions == nil {
		sessions = []models.StudySession{}
	}
	return sessions, nil
}

// LogSession records a finished session. A zero duration is derived from
// the start and end times; the semester is taken from the subject.
func (s *sessionService) LogSession(ctx context.Context, session models.StudySession) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("logging session: subject_id=%d", session.SubjectID)

	if session.StartTime.IsZero() {
		return nil, errors.NewValidationError("start_time", "is required")
	}
	if session.EndTime.IsZero() {
		session.EndTime = session.StartTime
	}
	if session.EndTime.Before(session.StartTime) {
		return nil, errors.NewValidationError("end_time", "must not be before start_time")
	}
	if session.DurationSeconds < 0 {
		return nil, errors.NewValidationError("duration_seconds", "must be >= 0")
	}
	if session.DurationSeconds == 0 {
		session.DurationSeconds = int64(session.EndTime.Sub(session.StartTime).Seconds())
	}

	subject, err := s.subjects.GetSubject(ctx, session.SubjectID)
	if err != nil {
		return nil, err
	}
	if session.SemesterID != 0 && session.SemesterID != subject.SemesterID {
		return nil, errors.NewValidationError("semester_id", "does not match the subject's semester")
	}
	session.SemesterID = subject.SemesterID

	id, err := s.sessionRepo.Insert(ctx, session)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	session.ID = id
	log.Info("logged %ds of study for subject %d", session.DurationSeconds, session.SubjectID)

	s.notifier.SubjectChanged(ctx, session.SubjectID)
	return &session, nil
}

// SemesterTotals sums logged time per subject, largest first.
func (s *sessionService) SemesterTotals(ctx context.Context, semesterID int64) (*models.SemesterTotals, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing semester totals: semester_id=%d", semesterID)

	totals, err := s.sessionRepo.TotalsBySubject(ctx, semesterID)
	if err != nil {
		log.Error("failed to compute totals: %v", err)
		return nil, errors.NewInternalError(err)
	}

	out := &models.SemesterTotals{SemesterID: semesterID, Subjects: []models.SubjectTotal{}}
	for _, t := range totals {
		out.Subjects = append(out.Subjects, t)
		out.TotalSeconds += t.TotalSeconds
	}
	return out, nil
}
