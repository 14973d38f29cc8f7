package services

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/vytor/studytracker/internal/analytics"
	"github.com/vytor/studytracker/internal/errors"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/models"
	"github.com/vytor/studytracker/internal/repository"
)

// AnalyticsService snapshots a subject's records and runs the analytics
// engine over them. Reports are cached by a hash of their inputs, so a
// cached report is served only while nothing it depends on has changed.
type AnalyticsService interface {
	Snapshot(ctx context.Context, subjectID int64) (*models.SubjectSnapshot, error)
	EnrichedAssessments(ctx context.Context, subjectID int64) ([]models.EnrichedAssessment, error)
	Analytics(ctx context.Context, subjectID int64) (*models.Analytics, error)
	// GradeReport uses target when non-nil, else the subject's target grade.
	GradeReport(ctx context.Context, subjectID int64, target *float64) (*models.GradeReport, error)
	Report(ctx context.Context, subjectID int64, target *float64) (*models.SubjectReport, error)
	// Recompute derives the report with the subject's own target and caches it.
	Recompute(ctx context.Context, subjectID int64) error
	// WarmAll recomputes every subject of every active semester.
	WarmAll(ctx context.Context) error
	Invalidate(subjectID int64)
}

type AnalyticsDeps struct {
	Subjects     repository.SubjectRepository
	Categories   repository.CategoryRepository
	Sessions     repository.SessionRepository
	Assessments  repository.AssessmentRepository
	GradeEntries repository.GradeEntryRepository
}

type analyticsService struct {
	deps          AnalyticsDeps
	engine        *analytics.Engine
	defaultTarget float64
	cache         *lru.Cache[uint64, models.SubjectReport]
	now           func() time.Time

	mu   sync.Mutex
	keys map[int64]map[uint64]struct{}
}

// NewAnalyticsService creates a new AnalyticsService with an LRU report
// cache of cacheSize entries.
func NewAnalyticsService(deps AnalyticsDeps, cfg analytics.Config, defaultTarget float64, cacheSize int) (AnalyticsService, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	s := &analyticsService{
		deps:          deps,
		engine:        analytics.New(cfg),
		defaultTarget: defaultTarget,
		now:           time.Now,
		keys:          make(map[int64]map[uint64]struct{}),
	}
	cache, err := lru.NewWithEvict[uint64, models.SubjectReport](cacheSize, s.forget)
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

func (s *analyticsService) Snapshot(ctx context.Context, subjectID int64) (*models.SubjectSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("analytics")
	log.Debug("building snapshot: subject_id=%d", subjectID)

	subject, err := s.deps.Subjects.Get(ctx, subjectID)
	if err != nil {
		log.Error("failed to get subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if subject == nil {
		return nil, errors.NewNotFoundError("subject", subjectID)
	}

	snap := &models.SubjectSnapshot{Subject: *subject}
	if snap.Categories, err = s.deps.Categories.List(ctx, subjectID); err != nil {
		log.Error("failed to load categories: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if snap.Weights, err = s.deps.Categories.Weights(ctx, subjectID); err != nil {
		log.Error("failed to load weights: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if snap.Sessions, err = s.deps.Sessions.List(ctx, models.SessionFilter{SubjectID: subjectID}); err != nil {
		log.Error("failed to load sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if snap.Assessments, err = s.deps.Assessments.List(ctx, models.AssessmentFilter{SubjectID: subjectID}); err != nil {
		log.Error("failed to load assessments: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if snap.GradeEntries, err = s.deps.GradeEntries.List(ctx, subjectID); err != nil {
		log.Error("failed to load grade entries: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("snapshot: %d categories, %d sessions, %d assessments, %d grade entries",
		len(snap.Categories), len(snap.Sessions), len(snap.Assessments), len(snap.GradeEntries))
	return snap, nil
}

func (s *analyticsService) EnrichedAssessments(ctx context.Context, subjectID int64) ([]models.EnrichedAssessment, error) {
	report, err := s.Report(ctx, subjectID, nil)
	if err != nil {
		return nil, err
	}
	return report.Assessments, nil
}

func (s *analyticsService) Analytics(ctx context.Context, subjectID int64) (*models.Analytics, error) {
	report, err := s.Report(ctx, subjectID, nil)
	if err != nil {
		return nil, err
	}
	return &report.Analytics, nil
}

func (s *analyticsService) GradeReport(ctx context.Context, subjectID int64, target *float64) (*models.GradeReport, error) {
	report, err := s.Report(ctx, subjectID, target)
	if err != nil {
		return nil, err
	}
	return &report.Grade, nil
}

func (s *analyticsService) Report(ctx context.Context, subjectID int64, target *float64) (*models.SubjectReport, error) {
	log := logger.FromContext(ctx).WithPrefix("analytics")

	if target != nil {
		if err := validateTarget(*target); err != nil {
			return nil, err
		}
	}

	snap, err := s.Snapshot(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	goal := s.resolveTarget(snap.Subject, target)

	key, err := s.cacheKey(snap, goal)
	if err != nil {
		// Hashing only fails on unsupported types; fall back to computing.
		log.Warn("could not hash snapshot for subject %d: %v", subjectID, err)
		report := s.compute(snap, goal)
		return &report, nil
	}

	if report, ok := s.cache.Get(key); ok {
		log.Debug("report cache hit: subject_id=%d", subjectID)
		return &report, nil
	}

	report := s.compute(snap, goal)
	s.remember(subjectID, key, report)
	log.Debug("report computed: subject_id=%d, current=%.2f, required=%.2f", subjectID, report.Grade.CurrentGrade, report.Grade.RequiredScore)
	return &report, nil
}

func (s *analyticsService) Recompute(ctx context.Context, subjectID int64) error {
	_, err := s.Report(ctx, subjectID, nil)
	if errors.IsNotFound(err) {
		// The subject was deleted after the job was queued.
		return nil
	}
	return err
}

func (s *analyticsService) WarmAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("analytics")

	ids, err := s.deps.Subjects.ListIDs(ctx)
	if err != nil {
		log.Error("failed to list subjects: %v", err)
		return errors.NewInternalError(err)
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Recompute(ctx, id); err != nil {
			log.Error("failed to warm report for subject %d: %v", id, err)
		}
	}
	log.Info("warmed %d subject reports", len(ids))
	return nil
}

func (s *analyticsService) Invalidate(subjectID int64) {
	s.mu.Lock()
	keys := make([]uint64, 0, len(s.keys[subjectID]))
	for k := range s.keys[subjectID] {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	for _, k := range keys {
		s.cache.Remove(k)
	}
}

func (s *analyticsService) compute(snap *models.SubjectSnapshot, target float64) models.SubjectReport {
	report := s.engine.Compute(*snap, target)
	report.ComputedAt = s.now().UTC()
	return report
}

// remember caches a report and indexes its key by subject. The cache is
// touched outside mu because eviction calls back into forget.
func (s *analyticsService) remember(subjectID int64, key uint64, report models.SubjectReport) {
	s.mu.Lock()
	if s.keys[subjectID] == nil {
		s.keys[subjectID] = make(map[uint64]struct{})
	}
	s.keys[subjectID][key] = struct{}{}
	s.mu.Unlock()

	s.cache.Add(key, report)
}

func (s *analyticsService) forget(key uint64, report models.SubjectReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.keys[report.SubjectID]
	delete(keys, key)
	if len(keys) == 0 {
		delete(s.keys, report.SubjectID)
	}
}

func (s *analyticsService) resolveTarget(subject models.Subject, override *float64) float64 {
	if override != nil {
		return *override
	}
	if subject.TargetGrade > 0 {
		return subject.TargetGrade
	}
	return s.defaultTarget
}

// reportInputs is everything a report depends on.
type reportInputs struct {
	Snapshot models.SubjectSnapshot
	Policy   string
	Location string
	Target   float64
}

func (s *analyticsService) cacheKey(snap *models.SubjectSnapshot, target float64) (uint64, error) {
	cfg := s.engine.Config()
	return hashstructure.Hash(reportInputs{
		Snapshot: *snap,
		Policy:   string(cfg.Policy),
		Location: cfg.Location.String(),
		Target:   target,
	}, hashstructure.FormatV2, nil)
}
