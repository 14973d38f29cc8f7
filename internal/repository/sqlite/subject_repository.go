package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

type subjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository creates a new SubjectRepository implementation
func NewSubjectRepository(db *sql.DB) repository.SubjectRepository {
	return &subjectRepository{db: db}
}

const subjectColumns = `id, semester_id, name, total_exams, target_grade, created_at`

func scanSubject(row interface{ Scan(...any) error }, s *models.Subject) error {
	return row.Scan(&s.ID, &s.SemesterID, &s.Name, &s.TotalExams, &s.TargetGrade, &s.CreatedAt)
}

func (r *subjectRepository) List(ctx context.Context, semesterID int64) ([]models.Subject, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("listing subjects: semester_id=%d", semesterID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+subjectColumns+`
FROM subjects
WHERE semester_id = ?
ORDER BY name ASC, id ASC
`, semesterID)
	if err != nil {
		log.Error("failed to list subjects: %v", err)
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := scanSubject(rows, &s); err != nil {
			log.Error("failed to scan subject row: %v", err)
			return nil, err
		}
		subjects = append(subjects, s)
	}
	log.Debug("found %d subjects", len(subjects))
	return subjects, rows.Err()
}

func (r *subjectRepository) ListIDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("listing subject ids of active semesters")

	rows, err := r.db.QueryContext(ctx, `
SELECT s.id
FROM subjects s
JOIN semesters sem ON sem.id = s.semester_id
WHERE sem.archived = 0
ORDER BY s.id ASC
`)
	if err != nil {
		log.Error("failed to list subject ids: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *subjectRepository) Get(ctx context.Context, id int64) (*models.Subject, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("getting subject: id=%d", id)

	var s models.Subject
	err := scanSubject(r.db.QueryRowContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id), &s)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("subject not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get subject: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *subjectRepository) Create(ctx context.Context, subject models.Subject) (*models.Subject, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("creating subject: semester_id=%d, name=%s", subject.SemesterID, subject.Name)

	var created models.Subject
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
INSERT INTO subjects (semester_id, name, total_exams, target_grade)
VALUES (?, ?, ?, ?)
RETURNING `+subjectColumns, subject.SemesterID, subject.Name, subject.TotalExams, subject.TargetGrade)
		if err := scanSubject(row, &created); err != nil {
			log.Error("failed to insert subject: %v", err)
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO categories (subject_id, name, weight, position)
VALUES (?, ?, 0, 0)
`, created.ID, models.ExamCategory); err != nil {
			log.Error("failed to seed exam category: %v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug("subject created: id=%d", created.ID)
	return &created, nil
}

func (r *subjectRepository) UpdateSettings(ctx context.Context, id int64, totalExams int, targetGrade float64) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("updating subject settings: id=%d, total_exams=%d, target_grade=%.2f", id, totalExams, targetGrade)

	_, err := r.db.ExecContext(ctx, `UPDATE subjects SET total_exams = ?, target_grade = ? WHERE id = ?`, totalExams, targetGrade, id)
	if err != nil {
		log.Error("failed to update subject settings: %v", err)
	}
	return err
}

func (r *subjectRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("deleting subject and related data: id=%d", id)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM assessments WHERE subject_id = ?`,
			`DELETE FROM grade_entries WHERE subject_id = ?`,
			`DELETE FROM study_sessions WHERE subject_id = ?`,
			`DELETE FROM categories WHERE subject_id = ?`,
			`DELETE FROM subjects WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				log.Error("failed to delete subject %d: %v", id, err)
				return err
			}
		}
		return nil
	})
}
