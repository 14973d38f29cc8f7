package repository

import (
	"context"
	"errors"

	"github.com/vytor/studytracker/internal/models"
)

// ErrDuplicate is returned when a write would violate a uniqueness rule.
var ErrDuplicate = errors.New("duplicate record")

// SemesterRepository handles semester data access
type SemesterRepository interface {
	List(ctx context.Context, includeArchived bool) ([]models.Semester, error)
	Get(ctx context.Context, id int64) (*models.Semester, error)
	Create(ctx context.Context, name string) (*models.Semester, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
	Delete(ctx context.Context, id int64) error
}

// SubjectRepository handles subject data access
type SubjectRepository interface {
	List(ctx context.Context, semesterID int64) ([]models.Subject, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, id int64) (*models.Subject, error)
	// Create inserts the subject together with its Exam category.
	Create(ctx context.Context, subject models.Subject) (*models.Subject, error)
	UpdateSettings(ctx context.Context, id int64, totalExams int, targetGrade float64) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository handles assignment type data access
type CategoryRepository interface {
	List(ctx context.Context, subjectID int64) ([]models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, category models.Category) (*models.Category, error)
	Rename(ctx context.Context, id int64, name string) error
	SetWeight(ctx context.Context, id int64, weight float64) error
	// SetWeights updates all given weights of a subject atomically.
	SetWeights(ctx context.Context, subjectID int64, weights models.Weights) error
	Weights(ctx context.Context, subjectID int64) (models.Weights, error)
	// CountUsage returns how many assessments and grade entries reference the category.
	CountUsage(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

// SessionRepository handles study session data access
type SessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	Insert(ctx context.Context, session models.StudySession) (int64, error)
	TotalsBySubject(ctx context.Context, semesterID int64) ([]models.SubjectTotal, error)
}

// AssessmentRepository handles assessment data access
type AssessmentRepository interface {
	List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, error)
	Get(ctx context.Context, id int64) (*models.Assessment, error)
	Insert(ctx context.Context, assessment models.Assessment) (int64, error)
	Update(ctx context.Context, assessment models.Assessment) error
	Delete(ctx context.Context, id int64) error
}

// GradeEntryRepository handles grade entry data access
type GradeEntryRepository interface {
	List(ctx context.Context, subjectID int64) ([]models.GradeEntry, error)
	Get(ctx context.Context, id int64) (*models.GradeEntry, error)
	Insert(ctx context.Context, entry models.GradeEntry) (int64, error)
	Update(ctx context.Context, entry models.GradeEntry) error
	Delete(ctx context.Context, id int64) error
}
