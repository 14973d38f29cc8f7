package services

import (
	"context"
	"strings"

	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

// SemesterService handles semester-related business logic
type SemesterService interface {
	ListSemesters(ctx context.Context, includeArchived bool) ([]models.Semester, error)
	CreateSemester(ctx context.Context, name string) (*models.Semester, error)
	GetSemester(ctx context.Context, id int64) (*models.Semester, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
	DeleteSemester(ctx context.Context, id int64) error
}

type semesterService struct {
	semesterRepo repository.SemesterRepository
}

// NewSemesterService creates a new SemesterService
func NewSemesterService(semesterRepo repository.SemesterRepository) SemesterService {
	return &semesterService{semesterRepo: semesterRepo}
}

func (s *semesterService) ListSemesters(ctx context.Context, includeArchived bool) ([]models.Semester, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing semesters: include_archived=%t", includeArchived)

	semesters, err := s.semesterRepo.List(ctx, includeArchived)
	if err != nil {
		log.Error("failed to list semesters: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if semesters == nil {
		semesters = []models.Semester{}
	}
	return semesters, nil
}

func (s *semesterService) CreateSemester(ctx context.Context, name string) (*models.Semester, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("creating semester: name=%s", name)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	semester, err := s.semesterRepo.Create(ctx, name)
	if err != nil {
		log.Error("failed to create semester: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return semester, nil
}

func (s *semesterService) GetSemester(ctx context.Context, id int64) (*models.Semester, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting semester: id=%d", id)

	semester, err := s.semesterRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get semester: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if semester == nil {
		return nil, errors.NewNotFoundError("semester", id)
	}
	return semester, nil
}

func (s *semesterService) SetArchived(ctx context.Context, id int64, archived bool) error {
	log := logger.FromContext(ctx)
	log.Debug("setting semester archived: id=%d, archived=%t", id, archived)

	if _, err := s.GetSemester(ctx, id); err != nil {
		return err
	}
	if err := s.semesterRepo.SetArchived(ctx, id, archived); err != nil {
		log.Error("failed to archive semester: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *semesterService) DeleteSemester(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting semester: id=%d", id)

	if err := s.semesterRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete semester: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
