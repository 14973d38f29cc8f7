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

type gradeEntryRepository struct {
	db *sql.DB
}

// NewGradeEntryRepository creates a new GradeEntryRepository implementation
func NewGradeEntryRepository(db *sql.DB) repository.GradeEntryRepository {
	return &gradeEntryRepository{db: db}
}

func (r *gradeEntryRepository) List(ctx context.Context, subjectID int64) ([]models.GradeEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("grade_repo")
	log.Debug("listing grade entries: subject_id=%d", subjectID)

	query := sqlBuilder.Select("id", "subject_id", "category_id", "name", "score", "total_points").
		From("grade_entries").
		OrderBy("id ASC")
	if subjectID != 0 {
		query = query.Where(squirrel.Eq{"subject_id": subjectID})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list grade entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.GradeEntry
	for rows.Next() {
		var g models.GradeEntry
		if err := rows.Scan(&g.ID, &g.SubjectID, &g.CategoryID, &g.Name, &g.Score, &g.TotalPoints); err != nil {
			log.Error("failed to scan grade entry row: %v", err)
			return nil, err
		}
		entries = append(entries, g)
	}
	log.Debug("found %d grade entries", len(entries))
	return entries, rows.Err()
}

func (r *gradeEntryRepository) Get(ctx context.Context, id int64) (*models.GradeEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("grade_repo")
	log.Debug("getting grade entry: id=%d", id)

	var g models.GradeEntry
	err := r.db.QueryRowContext(ctx, `
SELECT id, subject_id, category_id, name, score, total_points
FROM grade_entries
WHERE id = ?
`, id).Scan(&g.ID, &g.SubjectID, &g.CategoryID, &g.Name, &g.Score, &g.TotalPoints)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("grade entry not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get grade entry: %v", err)
		return nil, err
	}
	return &g, nil
}

func (r *gradeEntryRepository) Insert(ctx context.Context, g models.GradeEntry) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("grade_repo")
	log.Debug("inserting grade entry: subject_id=%d, name=%s", g.SubjectID, g.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO grade_entries (subject_id, category_id, name, score, total_points)
VALUES (?, ?, ?, ?, ?)
`, g.SubjectID, g.CategoryID, g.Name, g.Score, g.TotalPoints)
	if err != nil {
		log.Error("failed to insert grade entry: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get grade entry id: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *gradeEntryRepository) Update(ctx context.Context, g models.GradeEntry) error {
	log := logger.FromContext(ctx).WithPrefix("grade_repo")
	log.Debug("updating grade entry: id=%d", g.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE grade_entries
SET category_id = ?, name = ?, score = ?, total_points = ?
WHERE id = ?
`, g.CategoryID, g.Name, g.Score, g.TotalPoints, g.ID)
	if err != nil {
		log.Error("failed to update grade entry: %v", err)
	}
	return err
}

func (r *gradeEntryRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("grade_repo")
	log.Debug("deleting grade entry: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM grade_entries WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete grade entry: %v", err)
	}
	return err
}
