package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

type semesterRepository struct {
	db *sql.DB
}

// NewSemesterRepository creates a new SemesterRepository implementation
func NewSemesterRepository(db *sql.DB) repository.SemesterRepository {
	return &semesterRepository{db: db}
}

func (r *semesterRepository) List(ctx context.Context, includeArchived bool) ([]models.Semester, error) {
	log := logger.FromContext(ctx).WithPrefix("semester_repo")
	log.Debug("listing semesters: include_archived=%t", includeArchived)

	query := sqlBuilder.Select("id", "name", "archived", "created_at").From("semesters")
	if !includeArchived {
		query = query.Where("archived = 0")
	}
	query = query.OrderBy("created_at DESC", "id DESC")

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list semesters: %v", err)
		return nil, err
	}
	defer rows.Close()

	var semesters []models.Semester
	for rows.Next() {
		var s models.Semester
		if err := rows.Scan(&s.ID, &s.Name, &s.Archived, &s.CreatedAt); err != nil {
			log.Error("failed to scan semester row: %v", err)
			return nil, err
		}
		semesters = append(semesters, s)
	}
	log.Debug("found %d semesters", len(semesters))
	return semesters, rows.Err()
}

func (r *semesterRepository) Get(ctx context.Context, id int64) (*models.Semester, error) {
	log := logger.FromContext(ctx).WithPrefix("semester_repo")
	log.Debug("getting semester: id=%d", id)

	var s models.Semester
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, archived, created_at
FROM semesters
WHERE id = ?
`, id).Scan(&s.ID, &s.Name, &s.Archived, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("semester not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get semester: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *semesterRepository) Create(ctx context.Context, name string) (*models.Semester, error) {
	log := logger.FromContext(ctx).WithPrefix("semester_repo")
	log.Debug("creating semester: name=%s", name)

	var s models.Semester
	err := r.db.QueryRowContext(ctx, `
INSERT INTO semesters (name)
VALUES (?)
RETURNING id, name, archived, created_at
`, name).Scan(&s.ID, &s.Name, &s.Archived, &s.CreatedAt)
	if err != nil {
		log.Error("failed to create semester: %v", err)
		return nil, err
	}
	log.Debug("semester created: id=%d", s.ID)
	return &s, nil
}

func (r *semesterRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	log := logger.FromContext(ctx).WithPrefix("semester_repo")
	log.Debug("setting semester archived: id=%d, archived=%t", id, archived)

	_, err := r.db.ExecContext(ctx, `UPDATE semesters SET archived = ? WHERE id = ?`, archived, id)
	if err != nil {
		log.Error("failed to update semester: %v", err)
	}
	return err
}

func (r *semesterRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("semester_repo")
	log.Debug("deleting semester and related data: id=%d", id)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		// Records point at categories without cascading, so they go first.
		for _, stmt := range []string{
			`DELETE FROM assessments WHERE subject_id IN (SELECT id FROM subjects WHERE semester_id = ?)`,
			`DELETE FROM grade_entries WHERE subject_id IN (SELECT id FROM subjects WHERE semester_id = ?)`,
			`DELETE FROM study_sessions WHERE semester_id = ?`,
			`DELETE FROM categories WHERE subject_id IN (SELECT id FROM subjects WHERE semester_id = ?)`,
			`DELETE FROM subjects WHERE semester_id = ?`,
			`DELETE FROM semesters WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				log.Error("failed to delete semester %d: %v", id, err)
				return err
			}
		}
		log.Debug("semester %d deleted with cascading data", id)
		return nil
	})
}
