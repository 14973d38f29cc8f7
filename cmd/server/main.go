package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/studytracker/internal/api"
	"github.com/vytor/studytracker/internal/config"
	"github.com/vytor/studytracker/internal/db"
	"github.com/vytor/studytracker/internal/jobs"
	"github.com/vytor/studytracker/internal/logger"
	"github.com/vytor/studytracker/internal/repository/sqlite"
	"github.com/vytor/studytracker/internal/scheduler"
	"github.com/vytor/studytracker/internal/services"
	"github.com/vytor/studytracker/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogFile == ""),
		logger.WithFile(cfg.LogFile, 10, 3),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Study Tracker Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("ungraded_policy=%s", cfg.UngradedPolicy)
	log.Debug("default_target_grade=%g", cfg.DefaultTargetGrade)
	log.Debug("report_cache_size=%d", cfg.ReportCacheSize)
	log.Debug("recompute_worker_count=%d", cfg.RecomputeWorkerCount)
	log.Debug("recompute_queue_size=%d", cfg.RecomputeQueueSize)
	log.Debug("warm_schedule=%s", cfg.WarmSchedule)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open database
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	semesterRepo := sqlite.NewSemesterRepository(database.DB)
	subjectRepo := sqlite.NewSubjectRepository(database.DB)
	categoryRepo := sqlite.NewCategoryRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	assessmentRepo := sqlite.NewAssessmentRepository(database.DB)
	gradeRepo := sqlite.NewGradeEntryRepository(database.DB)

	analyticsCfg := cfg.AnalyticsConfig()
	analyticsService, err := services.NewAnalyticsService(services.AnalyticsDeps{
		Subjects:     subjectRepo,
		Categories:   categoryRepo,
		Sessions:     sessionRepo,
		Assessments:  assessmentRepo,
		GradeEntries: gradeRepo,
	}, analyticsCfg, cfg.DefaultTargetGrade, cfg.ReportCacheSize)
	if err != nil {
		log.Error("failed to create analytics service: %v", err)
		os.Exit(1)
	}

	// Background recomputation
	recomputePool := worker.NewPool(cfg.RecomputeWorkerCount, cfg.RecomputeQueueSize)
	queue := jobs.NewWorkerQueue(recomputePool, analyticsService)
	notifier := services.NewChangeNotifier(analyticsService, queue)

	// Initialize services
	semesterService := services.NewSemesterService(semesterRepo)
	subjectService := services.NewSubjectService(subjectRepo, categoryRepo, semesterService, notifier, cfg.DefaultTargetGrade)

	srv := &api.Server{
		Semesters:     semesterService,
		Subjects:      subjectService,
		Sessions:      services.NewSessionService(sessionRepo, subjectService, notifier),
		Assessments:   services.NewAssessmentService(assessmentRepo, categoryRepo, notifier),
		Grades:        services.NewGradeService(gradeRepo, categoryRepo, notifier),
		Analytics:     analyticsService,
		DB:            database,
		AllowedOrigin: cfg.AllowedOrigin,
	}

	recomputePool.Start(ctx)

	cronScheduler := scheduler.New(analyticsCfg.Location)
	if cfg.WarmSchedule != "" {
		_, err := cronScheduler.Schedule("warm-reports", cfg.WarmSchedule, func() {
			if err := queue.EnqueueWarmAll(); err != nil {
				log.Warn("could not enqueue report warm-up: %v", err)
			}
		})
		if err != nil {
			log.Error("failed to schedule report warm-up: %v", err)
			os.Exit(1)
		}
	}
	cronScheduler.Start()

	// Warm the cache once at startup so the first reads are served from memory.
	if err := queue.EnqueueWarmAll(); err != nil {
		log.Warn("could not enqueue initial warm-up: %v", err)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping scheduler")
	cronScheduler.Stop()

	log.Debug("stopping recompute pool")
	cancel()
	recomputePool.Stop()

	log.Info("===========================================")
	log.Info("Study Tracker Server Stopped")
	log.Info("===========================================")
}
