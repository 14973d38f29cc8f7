package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions with filter: semester_id=%d, subject_id=%d", filter.SemesterID, filter.SubjectID)

	query := sqlBuilder.Select(
		"id", "semester_id", "subject_id", "start_time", "end_time", "duration_seconds",
	).From("study_sessions")

	if filter.SemesterID != 0 {
		query = query.Where(squirrel.Eq{"semester_id": filter.SemesterID})
	}
	if filter.SubjectID != 0 {
		query = query.Where(squirrel.Eq{"subject_id": filter.SubjectID})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"start_time": utc(*filter.From)})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"start_time": utc(*filter.To)})
	}
	query = query.OrderBy("start_time ASC", "id ASC")

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		var s models.StudySession
		if err := rows.Scan(&s.ID, &s.SemesterID, &s.SubjectID, &s.StartTime, &s.EndTime, &s.DurationSeconds); err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) Insert(ctx context.Context, s models.StudySession) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: subject_id=%d, duration=%ds", s.SubjectID, s.DurationSeconds)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO study_sessions (semester_id, subject_id, start_time, end_time, duration_seconds)
VALUES (?, ?, ?, ?, ?)
`, s.SemesterID, s.SubjectID, utc(s.StartTime), utc(s.EndTime), s.DurationSeconds)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get session id: %v", err)
		return 0, err
	}
	log.Debug("session inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) TotalsBySubject(ctx context.Context, semesterID int64) ([]models.SubjectTotal, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("summing session time by subject: semester_id=%d", semesterID)

	rows, err := r.db.QueryContext(ctx, `
SELECT s.id, s.name, COALESCE(SUM(ss.duration_seconds), 0) AS total
FROM subjects s
LEFT JOIN study_sessions ss ON ss.subject_id = s.id
WHERE s.semester_id = ?
GROUP BY s.id, s.name
ORDER BY total DESC, s.name ASC
`, semesterID)
	if err != nil {
		log.Error("failed to sum sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var totals []models.SubjectTotal
	for rows.Next() {
		var t models.SubjectTotal
		if err := rows.Scan(&t.SubjectID, &t.SubjectName, &t.TotalSeconds); err != nil {
			log.Error("failed to scan total row: %v", err)
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
