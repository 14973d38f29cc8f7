package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

type assessmentRepository struct {
	db *sql.DB
}

// NewAssessmentRepository creates a new AssessmentRepository implementation
func NewAssessmentRepository(db *sql.DB) repository.AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, error) {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("listing assessments with filter: subject_id=%d, category_id=%d", filter.SubjectID, filter.CategoryID)

	query := sqlBuilder.Select("id", "subject_id", "category_id", "name", "date", "grade").From("assessments")

	if filter.SubjectID != 0 {
		query = query.Where(squirrel.Eq{"subject_id": filter.SubjectID})
	}
	if filter.CategoryID != 0 {
		query = query.Where(squirrel.Eq{"category_id": filter.CategoryID})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"date": calendarDate(*filter.From)})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"date": calendarDate(*filter.To)})
	}
	query = query.OrderBy("date ASC", "id ASC")

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list assessments: %v", err)
		return nil, err
	}
	defer rows.Close()

	var assessments []models.Assessment
	for rows.Next() {
		var a models.Assessment
		if err := rows.Scan(&a.ID, &a.SubjectID, &a.CategoryID, &a.Name, &a.Date, &a.Grade); err != nil {
			log.Error("failed to scan assessment row: %v", err)
			return nil, err
		}
		assessments = append(assessments, a)
	}
	log.Debug("found %d assessments", len(assessments))
	return assessments, rows.Err()
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*models.Assessment, error) {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("getting assessment: id=%d", id)

	var a models.Assessment
	err := r.db.QueryRowContext(ctx, `
SELECT id, subject_id, category_id, name, date, grade
FROM assessments
WHERE id = ?
`, id).Scan(&a.ID, &a.SubjectID, &a.CategoryID, &a.Name, &a.Date, &a.Grade)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("assessment not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get assessment: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepository) Insert(ctx context.Context, a models.Assessment) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("inserting assessment: subject_id=%d, name=%s", a.SubjectID, a.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO assessments (subject_id, category_id, name, date, grade)
VALUES (?, ?, ?, ?, ?)
`, a.SubjectID, a.CategoryID, a.Name, calendarDate(a.Date), a.Grade)
	if err != nil {
		log.Error("failed to insert assessment: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get assessment id: %v", err)
		return 0, err
	}
	log.Debug("assessment inserted: id=%d", id)
	return id, nil
}

func (r *assessmentRepository) Update(ctx context.Context, a models.Assessment) error {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("updating assessment: id=%d", a.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE assessments
SET category_id = ?, name = ?, date = ?, grade = ?
WHERE id = ?
`, a.CategoryID, a.Name, calendarDate(a.Date), a.Grade, a.ID)
	if err != nil {
		log.Error("failed to update assessment: %v", err)
	}
	return err
}

func (r *assessmentRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("deleting assessment: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM assessments WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete assessment: %v", err)
	}
	return err
}
