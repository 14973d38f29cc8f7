package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository implementation
func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, subjectID int64) ([]models.Category, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("listing categories: subject_id=%d", subjectID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, subject_id, name, weight, position
FROM categories
WHERE subject_id = ?
ORDER BY position ASC, id ASC
`, subjectID)
	if err != nil {
		log.Error("failed to list categories: %v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.Name, &c.Weight, &c.Position); err != nil {
			log.Error("failed to scan category row: %v", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	log.Debug("found %d categories", len(categories))
	return categories, rows.Err()
}

func (r *categoryRepository) Get(ctx context.Context, id int64) (*models.Category, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("getting category: id=%d", id)

	var c models.Category
	err := r.db.QueryRowContext(ctx, `
SELECT id, subject_id, name, weight, position
FROM categories
WHERE id = ?
`, id).Scan(&c.ID, &c.SubjectID, &c.Name, &c.Weight, &c.Position)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("category not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get category: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, category models.Category) (*models.Category, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("creating category: subject_id=%d, name=%s", category.SubjectID, category.Name)

	var c models.Category
	err := r.db.QueryRowContext(ctx, `
INSERT INTO categories (subject_id, name, weight, position)
VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM categories WHERE subject_id = ?))
RETURNING id, subject_id, name, weight, position
`, category.SubjectID, category.Name, category.Weight, category.SubjectID).Scan(&c.ID, &c.SubjectID, &c.Name, &c.Weight, &c.Position)
	if err != nil {
		log.Error("failed to create category: %v", err)
		return nil, translateErr(err)
	}
	log.Debug("category created: id=%d", c.ID)
	return &c, nil
}

func (r *categoryRepository) Rename(ctx context.Context, id int64, name string) error {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("renaming category: id=%d, name=%s", id, name)

	_, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		log.Error("failed to rename category: %v", err)
	}
	return translateErr(err)
}

func (r *categoryRepository) SetWeight(ctx context.Context, id int64, weight float64) error {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("setting category weight: id=%d, weight=%.2f", id, weight)

	_, err := r.db.ExecContext(ctx, `UPDATE categories SET weight = ? WHERE id = ?`, weight, id)
	if err != nil {
		log.Error("failed to set category weight: %v", err)
	}
	return err
}

func (r *categoryRepository) SetWeights(ctx context.Context, subjectID int64, weights models.Weights) error {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("setting %d weights: subject_id=%d", len(weights), subjectID)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE categories SET weight = ? WHERE id = ? AND subject_id = ?`)
		if err != nil {
			log.Error("failed to prepare weight update: %v", err)
			return err
		}
		defer stmt.Close()

		for id, w := range weights {
			res, err := stmt.ExecContext(ctx, w, id, subjectID)
			if err != nil {
				log.Error("failed to update weight for category %d: %v", id, err)
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("category %d does not belong to subject %d", id, subjectID)
			}
		}
		return nil
	})
}

func (r *categoryRepository) Weights(ctx context.Context, subjectID int64) (models.Weights, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("loading weights: subject_id=%d", subjectID)

	rows, err := r.db.QueryContext(ctx, `SELECT id, weight FROM categories WHERE subject_id = ?`, subjectID)
	if err != nil {
		log.Error("failed to load weights: %v", err)
		return nil, err
	}
	defer rows.Close()

	weights := models.Weights{}
	for rows.Next() {
		var id int64
		var w float64
		if err := rows.Scan(&id, &w); err != nil {
			log.Error("failed to scan weight row: %v", err)
			return nil, err
		}
		weights[id] = w
	}
	return weights, rows.Err()
}

func (r *categoryRepository) CountUsage(ctx context.Context, id int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("counting category usage: id=%d", id)

	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT (SELECT COUNT(*) FROM assessments WHERE category_id = ?)
     + (SELECT COUNT(*) FROM grade_entries WHERE category_id = ?)
`, id, id).Scan(&n)
	if err != nil {
		log.Error("failed to count category usage: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("deleting category: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete category: %v", err)
	}
	return err
}
