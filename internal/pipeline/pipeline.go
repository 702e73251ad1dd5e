// Package pipeline drives postings through the staged evaluation flow:
// discovery, keyword filter, qualification filter, dispatch, completion.
// Every outcome is written to the record store before the next posting is
// touched, so an interrupted run resumes at the stage where each record was
// last durably written.
package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/events"
	"jobscout-engine/internal/policy"
	"jobscout-engine/internal/store"
)

// Candidate is a raw discovery hit before it becomes a stored posting.
type Candidate struct {
	ID       string
	Title    string
	Company  string
	Location string
}

// Source enumerates raw candidates for one (term, location) search. It calls
// emit once per candidate; emit returning false tells the source to stop
// enumerating further pages (the pipeline has hit previously seen inventory).
type Source interface {
	Discover(ctx context.Context, term, location string, emit func(Candidate) bool) error
}

// ErrUnavailable is returned by a TextFetcher when the description could not
// be retrieved. The pipeline records the posting as failed-and-discarded
// rather than aborting the run.
var ErrUnavailable = errors.New("pipeline: text unavailable")

type TextFetcher interface {
	FetchDescription(ctx context.Context, id string) (string, error)
}

// Matcher decides whether a description satisfies the operator's required
// education and years of experience. A Matcher error is fatal to the run:
// qualification must never silently default.
type Matcher interface {
	MatchQualifications(ctx context.Context, description, education string, yearsExp int) (bool, error)
}

type Notifier interface {
	SendBatch(ctx context.Context, b *domain.Batch) error
	ReportFailure(ctx context.Context, report string) error
}

// ErrAlreadyRunning is the busy signal for the trigger surface: only one run
// may be active at a time.
var ErrAlreadyRunning = errors.New("pipeline: run already in progress")

// Runner owns one pipeline instance. All collaborators are injected; the
// Runner itself holds no ambient state beyond the busy flag.
type Runner struct {
	DB       *store.DB
	Policy   *policy.Store
	Source   Source
	Fetcher  TextFetcher
	Matcher  Matcher
	Notifier Notifier
	Hub      *events.Hub

	Cfg config.Config
	Loc *time.Location

	// test hooks
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)

	running atomic.Bool
}

func NewRunner(db *store.DB, pol *policy.Store, src Source, fetcher TextFetcher, matcher Matcher, notifier Notifier, hub *events.Hub, cfg config.Config, loc *time.Location) *Runner {
	r := &Runner{
		DB:       db,
		Policy:   pol,
		Source:   src,
		Fetcher:  fetcher,
		Matcher:  matcher,
		Notifier: notifier,
		Hub:      hub,
		Cfg:      cfg,
		Loc:      loc,
		now:      time.Now,
	}
	r.sleep = func(ctx context.Context, d time.Duration) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	return r
}

// Running reports whether a run is currently active.
func (r *Runner) Running() bool {
	return r.running.Load()
}

func (r *Runner) today() time.Time {
	return r.now().In(r.Loc)
}

func (r *Runner) publish(typ string, data any) {
	if r.Hub != nil {
		r.Hub.Emit("", typ, data)
	}
}
