// Package scheduler runs periodic background work on cron schedules.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vytor/studytracker/internal/logger"
)

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New creates a scheduler whose specs are evaluated in loc. Specs use the
// standard five-field format plus descriptors such as "@every 1h".
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	log := logger.Default().WithPrefix("scheduler")
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{log}))),
		log:  log,
	}
}

// Schedule registers job under spec. An empty spec is rejected.
func (s *Scheduler) Schedule(name, spec string, job func()) (cron.EntryID, error) {
	if spec == "" {
		return 0, fmt.Errorf("schedule for %s is empty", name)
	}
	id, err := s.cron.AddFunc(spec, func() {
		s.log.Debug("running scheduled job: %s", name)
		job()
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	s.log.Info("scheduled %s: %s", name, spec)
	return id, nil
}

// Next reports when the entry runs next. Zero if the scheduler is not running.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("%s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("%s: %v %v", msg, err, keysAndValues)
}
