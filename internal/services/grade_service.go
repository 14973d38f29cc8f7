package services

import (
	"context"
	"math"
	"strings"

	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

// GradeService handles manually recorded grade entries
type GradeService interface {
	ListGrades(ctx context.Context, subjectID int64) ([]models.GradeEntry, error)
	CreateGrade(ctx context.Context, entry models.GradeEntry) (*models.GradeEntry, error)
	UpdateGrade(ctx context.Context, entry models.GradeEntry) (*models.GradeEntry, error)
	DeleteGrade(ctx context.Context, id int64) error
}

type gradeService struct {
	gradeRepo    repository.GradeEntryRepository
	categoryRepo repository.CategoryRepository
	notifier     ChangeNotifier
}

// NewGradeService creates a new GradeService
func NewGradeService(gradeRepo repository.GradeEntryRepository, categoryRepo repository.CategoryRepository, notifier ChangeNotifier) GradeService {
	return &gradeService{
		gradeRepo:    gradeRepo,
		categoryRepo: categoryRepo,
		notifier:     notifierOrNop(notifier),
	}
}

func (s *gradeService) ListGrades(ctx context.Context, subjectID int64) ([]models.GradeEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing grade entries: subject_id=%d", subjectID)

	if subjectID <= 0 {
		return nil, errors.NewValidationError("subjectId", "is required")
	}
	entries, err := s.gradeRepo.List(ctx, subjectID)
	if err != nil {
		log.Error("failed to list grade entries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entries == nil {
		entries = []models.GradeEntry{}
	}
	return entries, nil
}

func (s *gradeService) CreateGrade(ctx context.Context, g models.GradeEntry) (*models.GradeEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating grade entry: subject_id=%d, name=%s", g.SubjectID, g.Name)

	if err := s.validate(ctx, &g); err != nil {
		return nil, err
	}
	id, err := s.gradeRepo.Insert(ctx, g)
	if err != nil {
		log.Error("failed to insert grade entry: %v", err)
		return nil, errors.NewInternalError(err)
	}
	g.ID = id
	s.notifier.SubjectChanged(ctx, g.SubjectID)
	return &g, nil
}

func (s *gradeService) UpdateGrade(ctx context.Context, g models.GradeEntry) (*models.GradeEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating grade entry: id=%d", g.ID)

	existing, err := s.get(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.SubjectID = existing.SubjectID
	if err := s.validate(ctx, &g); err != nil {
		return nil, err
	}
	if err := s.gradeRepo.Update(ctx, g); err != nil {
		log.Error("failed to update grade entry: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.notifier.SubjectChanged(ctx, g.SubjectID)
	return &g, nil
}

func (s *gradeService) DeleteGrade(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting grade entry: id=%d", id)

	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gradeRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete grade entry: %v", err)
		return errors.NewInternalError(err)
	}
	s.notifier.SubjectChanged(ctx, existing.SubjectID)
	return nil
}

func (s *gradeService) get(ctx context.Context, id int64) (*models.GradeEntry, error) {
	g, err := s.gradeRepo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get grade entry: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if g == nil {
		return nil, errors.NewNotFoundError("grade entry", id)
	}
	return g, nil
}

func (s *gradeService) validate(ctx context.Context, g *models.GradeEntry) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	if math.IsNaN(g.Score) || math.IsInf(g.Score, 0) {
		return errors.NewValidationError("score", "must be a finite number")
	}
	if !(g.TotalPoints > 0) || math.IsInf(g.TotalPoints, 0) {
		return errors.NewValidationError("total_points", "must be > 0")
	}
	return checkCategory(ctx, s.categoryRepo, g.SubjectID, g.CategoryID)
}
