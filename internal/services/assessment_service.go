package services

import (
	"context"
	"strings"

	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

// AssessmentService handles dated assessments of a subject
type AssessmentService interface {
	ListAssessments(ctx context.Context, subjectID int64) ([]models.Assessment, error)
	CreateAssessment(ctx context.Context, assessment models.Assessment) (*models.Assessment, error)
	UpdateAssessment(ctx context.Context, assessment models.Assessment) (*models.Assessment, error)
	DeleteAssessment(ctx context.Context, id int64) error
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	categoryRepo   repository.CategoryRepository
	notifier       ChangeNotifier
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(assessmentRepo repository.AssessmentRepository, categoryRepo repository.CategoryRepository, notifier ChangeNotifier) AssessmentService {
	return &assessmentService{
		assessmentRepo: assessmentRepo,
		categoryRepo:   categoryRepo,
		notifier:       notifierOrNop(notifier),
	}
}

func (s *assessmentService) ListAssessments(ctx context.Context, subjectID int64) ([]models.Assessment, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing assessments: subject_id=%d", subjectID)

	if subjectID <= 0 {
		return nil, errors.NewValidationError("subjectId", "is required")
	}
	assessments, err := s.assessmentRepo.List(ctx, models.AssessmentFilter{SubjectID: subjectID})
	if err != nil {
		log.Error("failed to list assessments: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if assessments == nil {
		assessments = []models.Assessment{}
	}
	return assessments, nil
}

func (s *assessmentService) CreateAssessment(ctx context.Context, a models.Assessment) (*models.Assessment, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating assessment: subject_id=%d, name=%s", a.SubjectID, a.Name)

	if err := s.validate(ctx, &a); err != nil {
		return nil, err
	}
	id, err := s.assessmentRepo.Insert(ctx, a)
	if err != nil {
		log.Error("failed to insert assessment: %v", err)
		return nil, errors.NewInternalError(err)
	}
	a.ID = id
	s.notifier.SubjectChanged(ctx, a.SubjectID)
	return &a, nil
}

func (s *assessmentService) UpdateAssessment(ctx context.Context, a models.Assessment) (*models.Assessment, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating assessment: id=%d", a.ID)

	existing, err := s.get(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.SubjectID = existing.SubjectID
	if err := s.validate(ctx, &a); err != nil {
		return nil, err
	}
	if err := s.assessmentRepo.Update(ctx, a); err != nil {
		log.Error("failed to update assessment: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.notifier.SubjectChanged(ctx, a.SubjectID)
	return &a, nil
}

func (s *assessmentService) DeleteAssessment(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting assessment: id=%d", id)

	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.assessmentRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete assessment: %v", err)
		return errors.NewInternalError(err)
	}
	s.notifier.SubjectChanged(ctx, existing.SubjectID)
	return nil
}

func (s *assessmentService) get(ctx context.Context, id int64) (*models.Assessment, error) {
	a, err := s.assessmentRepo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get assessment: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if a == nil {
		return nil, errors.NewNotFoundError("assessment", id)
	}
	return a, nil
}

func (s *assessmentService) validate(ctx context.Context, a *models.Assessment) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Grade = strings.TrimSpace(a.Grade)
	if a.Name == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	if a.Date.IsZero() {
		return errors.NewValidationError("date", "is required")
	}
	return checkCategory(ctx, s.categoryRepo, a.SubjectID, a.CategoryID)
}

// checkCategory verifies that the category exists and belongs to the subject.
func checkCategory(ctx context.Context, repo repository.CategoryRepository, subjectID, categoryID int64) error {
	if subjectID <= 0 {
		return errors.NewValidationError("subject_id", "is required")
	}
	category, err := repo.Get(ctx, categoryID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get category: %v", err)
		return errors.NewInternalError(err)
	}
	if category == nil || category.SubjectID != subjectID {
		return errors.NewValidationError("category_id", "must reference a category of the subject")
	}
	return nil
}
