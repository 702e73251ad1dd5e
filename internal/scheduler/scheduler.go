// Package scheduler wires up the cron jobs that trigger pipeline runs and
// periodic store purges.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"jobscout-engine/internal/pipeline"
	"jobscout-engine/internal/store"
)

// Scheduler wraps robfig/cron. The pipeline run fires on the configured spec;
// the purge job checks daily whether today is one of the purge days.
type Scheduler struct {
	cron      *cron.Cron
	runner    *pipeline.Runner
	db        *store.DB
	loc       *time.Location
	runSpec   string // cron spec, e.g. "0 9 * * *"; empty disables runs
	purgeDays []int  // calendar days of month
}

func New(runner *pipeline.Runner, db *store.DB, loc *time.Location, runSpec string, purgeDays []int) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		runner:    runner,
		db:        db,
		loc:       loc,
		runSpec:   runSpec,
		purgeDays: purgeDays,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.runSpec != "" {
		if _, err := s.cron.AddFunc(s.runSpec, func() {
			s.runPipeline(ctx)
		}); err != nil {
			return fmt.Errorf("cron.AddFunc run: %w", err)
		}
	}

	if len(s.purgeDays) > 0 {
		if _, err := s.cron.AddFunc("30 3 * * *", func() {
			s.purgeIfDue()
		}); err != nil {
			return fmt.Errorf("cron.AddFunc purge: %w", err)
		}
	}

	s.cron.Start()
	log.Printf("[scheduler] cron started, run spec %q, purge days %v", s.runSpec, s.purgeDays)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] cron stopped")
}

func (s *Scheduler) runPipeline(ctx context.Context) {
	err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrAlreadyRunning):
		log.Println("[scheduler] skipping scheduled run, one is already in progress")
	case err != nil:
		log.Printf("[scheduler] pipeline run: %v", err)
	}
}

func (s *Scheduler) purgeIfDue() {
	today := time.Now().In(s.loc)
	due := false
	for _, d := range s.purgeDays {
		if today.Day() == d {
			due = true
			break
		}
	}
	if !due {
		return
	}

	n, err := s.db.PurgeExpired(today)
	if err != nil {
		log.Printf("[scheduler] purge: %v", err)
		return
	}
	log.Printf("[scheduler] purged %d expired posting(s)", n)
}
