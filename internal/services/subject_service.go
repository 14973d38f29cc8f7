package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"strings"

	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

// SubjectService handles subjects and their assignment types (categories).
type SubjectService interface {
	ListSubjects(ctx context.Context, semesterID int64) ([]models.Subject, error)
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
	CreateSubject(ctx context.Context, subject models.Subject) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error
	UpdateConfig(ctx context.Context, id int64, cfg models.SubjectConfig) (*models.Subject, error)

	ListCategories(ctx context.Context, subjectID int64) ([]models.Category, error)
	AddCategory(ctx context.Context, subjectID int64, name string, weight float64) (*models.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (*models.Category, error)
	SetCategoryWeight(ctx context.Context, id int64, weight float64) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type subjectService struct {
	subjectRepo  repository.SubjectRepository
	categoryRepo repository.CategoryRepository
	semesters    SemesterService
	notifier     ChangeNotifier
	targetGrade  float64
}

// NewSubjectService creates a new SubjectService. defaultTarget is used for
// subjects created without a target grade.
func NewSubjectService(
	subjectRepo repository.SubjectRepository,
	categoryRepo repository.CategoryRepository,
	semesters SemesterService,
	notifier ChangeNotifier,
	defaultTarget float64,
) SubjectService {
	return &subjectService{
		subjectRepo:  subjectRepo,
		categoryRepo: categoryRepo,
		semesters:    semesters,
		notifier:     notifierOrNop(notifier),
		targetGrade:  defaultTarget,
	}
}

func (s *subjectService) ListSubjects(ctx context.Context, semesterID int64) ([]models.Subject, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing subjects: semester_id=%d", semesterID)

	if semesterID <= 0 {
		return nil, errors.NewValidationError("semesterId", "is required")
	}
	subjects, err := s.subjectRepo.List(ctx, semesterID)
	if err != nil {
		log.Error("failed to list subjects: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

func (s *subjectService) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting subject: id=%d", id)

	subject, err := s.subjectRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if subject == nil {
		return nil, errors.NewNotFoundError("subject", id)
	}
	return subject, nil
}

func (s *subjectService) CreateSubject(ctx context.Context, subject models.Subject) (*models.Subject, error) {
	log := logger.FromContext(ctx)
	subject.Name = strings.TrimSpace(subject.Name)
	log.Debug("creating subject: semester_id=%d, name=%s", subject.SemesterID, subject.Name)

	if subject.Name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if subject.TotalExams < 0 {
		return nil, errors.NewValidationError("total_exams", "must be >= 0")
	}
	if subject.TargetGrade == 0 {
		subject.TargetGrade = s.targetGrade
	}
	if err := validateTarget(subject.TargetGrade); err != nil {
		return nil, err
	}
	if _, err := s.semesters.GetSemester(ctx, subject.SemesterID); err != nil {
		return nil, err
	}

	created, err := s.subjectRepo.Create(ctx, subject)
	if err != nil {
		log.Error("failed to create subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return created, nil
}

func (s *subjectService) DeleteSubject(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting subject: id=%d", id)

	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete subject: %v", err)
		return errors.NewInternalError(err)
	}
	s.notifier.SubjectChanged(ctx, id)
	return nil
}

// UpdateConfig applies the weights, exam count and target of a subject. Nil
// fields are left unchanged; weights for categories not listed keep their
// current value.
func (s *subjectService) UpdateConfig(ctx context.Context, id int64, cfg models.SubjectConfig) (*models.Subject, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating subject config: id=%d, weights=%d", id, len(cfg.Weights))

	subject, err := s.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}

	totalExams, target := subject.TotalExams, subject.TargetGrade
	if cfg.TotalExams != nil {
		if *cfg.TotalExams < 0 {
			return nil, errors.NewValidationError("total_exams", "must be >= 0")
		}
		totalExams = *cfg.TotalExams
	}
	if cfg.TargetGrade != nil {
		if err := validateTarget(*cfg.TargetGrade); err != nil {
			return nil, err
		}
		target = *cfg.TargetGrade
	}

	if len(cfg.Weights) > 0 {
		categories, err := s.ListCategories(ctx, id)
		if err != nil {
			return nil, err
		}
		known := make(map[int64]bool, len(categories))
		for _, c := range categories {
			known[c.ID] = true
		}
		for catID, w := range cfg.Weights {
			if !known[catID] {
				return nil, errors.NewValidationError("weights", fmt.Sprintf("category %d does not belong to subject %d", catID, id))
			}
			if err := validateWeight(w); err != nil {
				return nil, err
			}
		}
		if err := s.categoryRepo.SetWeights(ctx, id, cfg.Weights); err != nil {
			log.Error("failed to update weights: %v", err)
			return nil, errors.NewInternalError(err)
		}
		s.warnOverweight(ctx, id)
	}

	if totalExams != subject.TotalExams || target != subject.TargetGrade {
		if err := s.subjectRepo.UpdateSettings(ctx, id, totalExams, target); err != nil {
			log.Error("failed to update subject settings: %v", err)
			return nil, errors.NewInternalError(err)
		}
		subject.TotalExams, subject.TargetGrade = totalExams, target
	}

	s.notifier.SubjectChanged(ctx, id)
	return subject, nil
}

func (s *subjectService) ListCategories(ctx context.Context, subjectID int64) ([]models.Category, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing categories: subject_id=%d", subjectID)

	categories, err := s.categoryRepo.List(ctx, subjectID)
	if err != nil {
		log.Error("failed to list categories: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *subjectService) AddCategory(ctx context.Context, subjectID int64, name string, weight float64) (*models.Category, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("adding category: subject_id=%d, name=%s", subjectID, name)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if err := validateWeight(weight); err != nil {
		return nil, err
	}
	if _, err := s.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(ctx, models.Category{SubjectID: subjectID, Name: name, Weight: weight})
	if stderrors.Is(err, repository.ErrDuplicate) {
		return nil, errors.NewConflictError(fmt.Sprintf("category %q already exists", name))
	}
	if err != nil {
		log.Error("failed to add category: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if weight > 0 {
		s.warnOverweight(ctx, subjectID)
	}
	s.notifier.SubjectChanged(ctx, subjectID)
	return category, nil
}

// RenameCategory changes the display name only. Records reference the
// category by ID, so nothing else needs rewriting.
func (s *subjectService) RenameCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("renaming category: id=%d, name=%s", id, name)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(category.Name, models.ExamCategory) && !strings.EqualFold(name, models.ExamCategory) {
		return nil, errors.NewConflictError("the Exam category cannot be renamed")
	}
	if category.Name == name {
		return category, nil
	}

	err = s.categoryRepo.Rename(ctx, id, name)
	if stderrors.Is(err, repository.ErrDuplicate) {
		return nil, errors.NewConflictError(fmt.Sprintf("category %q already exists", name))
	}
	if err != nil {
		log.Error("failed to rename category: %v", err)
		return nil, errors.NewInternalError(err)
	}
	category.Name = name
	s.notifier.SubjectChanged(ctx, category.SubjectID)
	return category, nil
}

func (s *subjectService) SetCategoryWeight(ctx context.Context, id int64, weight float64) (*models.Category, error) {
	log := logger.FromContext(ctx)
	log.Debug("setting category weight: id=%d, weight=%.2f", id, weight)

	if err := validateWeight(weight); err != nil {
		return nil, err
	}
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.SetWeight(ctx, id, weight); err != nil {
		log.Error("failed to set category weight: %v", err)
		return nil, errors.NewInternalError(err)
	}
	category.Weight = weight
	s.warnOverweight(ctx, category.SubjectID)
	s.notifier.SubjectChanged(ctx, category.SubjectID)
	return category, nil
}

func (s *subjectService) DeleteCategory(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting category: id=%d", id)

	category, err := s.getCategory(ctx, id)
	if err != nil {
		return err
	}
	if strings.EqualFold(category.Name, models.ExamCategory) {
		return errors.NewConflictError("the Exam category cannot be deleted")
	}
	used, err := s.categoryRepo.CountUsage(ctx, id)
	if err != nil {
		log.Error("failed to count category usage: %v", err)
		return errors.NewInternalError(err)
	}
	if used > 0 {
		return errors.NewConflictError(fmt.Sprintf("category %q is used by %d records", category.Name, used))
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete category: %v", err)
		return errors.NewInternalError(err)
	}
	s.notifier.SubjectChanged(ctx, category.SubjectID)
	return nil
}

func (s *subjectService) getCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categoryRepo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get category: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if category == nil {
		return nil, errors.NewNotFoundError("category", id)
	}
	return category, nil
}

// warnOverweight logs when a subject's weights add up to more than 100.
// Such configurations are allowed; the grade report shows a negative
// remaining weight.
func (s *subjectService) warnOverweight(ctx context.Context, subjectID int64) {
	log := logger.FromContext(ctx)
	weights, err := s.categoryRepo.Weights(ctx, subjectID)
	if err != nil {
		log.Warn("could not check weight total for subject %d: %v", subjectID, err)
		return
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	if total > 100+1e-9 {
		log.Warn("weights of subject %d sum to %.2f, above 100", subjectID, total)
	}
}

func validateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return errors.NewValidationError("weight", "must be a finite number >= 0")
	}
	return nil
}

func validateTarget(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return errors.NewValidationError("target_grade", "must be a finite number >= 0")
	}
	return nil
}
