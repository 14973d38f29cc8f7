package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/vytor/studytracker/internal/analytics"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	LogFile              string
	AllowedOrigin        string
	Timezone             string
	UngradedPolicy       string
	DefaultTargetGrade   float64
	ReportCacheSize      int
	RecomputeWorkerCount int
	RecomputeQueueSize   int
	WarmSchedule         string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:studytracker.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		LogFile:              os.Getenv("LOG_FILE"),
		AllowedOrigin:        envOr("ALLOWED_ORIGIN", "http://localhost:3000"),
		Timezone:             envOr("TIMEZONE", "UTC"),
		UngradedPolicy:       envOr("UNGRADED_POLICY", string(analytics.ZeroIsUngraded)),
		DefaultTargetGrade:   envFloatOr("DEFAULT_TARGET_GRADE", 90),
		ReportCacheSize:      envIntOr("REPORT_CACHE_SIZE", 128),
		RecomputeWorkerCount: envIntOr("RECOMPUTE_WORKER_COUNT", 2),
		RecomputeQueueSize:   envIntOr("RECOMPUTE_QUEUE_SIZE", 64),
		WarmSchedule:         envOr("WARM_SCHEDULE", "@every 1h"),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q is not a known location", c.Timezone))
	}
	if _, err := analytics.ParsePolicy(c.UngradedPolicy); err != nil {
		errs = append(errs, fmt.Errorf("UNGRADED_POLICY: %w", err))
	}
	if c.DefaultTargetGrade < 0 {
		errs = append(errs, errors.New("DEFAULT_TARGET_GRADE must be >= 0"))
	}
	if c.ReportCacheSize <= 0 {
		errs = append(errs, errors.New("REPORT_CACHE_SIZE must be > 0"))
	}
	if c.RecomputeWorkerCount <= 0 {
		errs = append(errs, errors.New("RECOMPUTE_WORKER_COUNT must be > 0"))
	}
	if c.RecomputeQueueSize <= 0 {
		errs = append(errs, errors.New("RECOMPUTE_QUEUE_SIZE must be > 0"))
	}
	if c.WarmSchedule != "" {
		if _, err := cron.ParseStandard(c.WarmSchedule); err != nil {
			errs = append(errs, fmt.Errorf("WARM_SCHEDULE %q: %w", c.WarmSchedule, err))
		}
	}
	return errors.Join(errs...)
}

// AnalyticsConfig builds the engine configuration. Call Validate first.
func (c Config) AnalyticsConfig() analytics.Config {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc = time.UTC
	}
	policy, err := analytics.ParsePolicy(c.UngradedPolicy)
	if err != nil {
		policy = analytics.ZeroIsUngraded
	}
	return analytics.Config{Policy: policy, Location: loc}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}
