package pipeline

import (
	"context"
	"fmt"
	"log"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/store"
)

// Run executes the full pipeline for every configured search. Only one run
// may be active at a time; concurrent triggers get ErrAlreadyRunning.
//
// Any stage failure aborts the remaining stages, is reported once to the
// notifier, and leaves every record at its last durably written stage; the
// next run picks those records back up through the resume queries.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	r.publish("run_started", nil)

	err := r.run(ctx)
	if err != nil {
		log.Printf("[pipeline] run failed: %v", err)
		r.publish("run_failed", map[string]string{"error": err.Error()})
		if rerr := r.Notifier.ReportFailure(ctx, err.Error()); rerr != nil {
			log.Printf("[pipeline] failure report not delivered: %v", rerr)
		}
		return err
	}

	r.publish("run_completed", nil)
	return nil
}

func (r *Runner) run(ctx context.Context) error {
	// Policy is loaded fresh each run so exclusions appended through the
	// command surface take effect on the next trigger.
	pol, err := r.Policy.Load()
	if err != nil {
		return fmt.Errorf("load exclusion policy: %w", err)
	}

	batch := domain.NewBatch()
	var completed []string

	for _, search := range r.Cfg.Searches {
		log.Printf("[pipeline] search %q in %q", search.Term, search.Location)
		batch.EnsureSearch(search.Term, search.Location)

		discovered, err := r.discoverStage(ctx, search.Term, search.Location, pol)
		if err != nil {
			return fmt.Errorf("discover %q/%q: %w", search.Term, search.Location, err)
		}

		matched, err := r.keywordStage(ctx, discovered)
		if err != nil {
			return fmt.Errorf("keyword filter %q/%q: %w", search.Term, search.Location, err)
		}

		qualified, err := r.qualifyStage(ctx, matched, search.Term)
		if err != nil {
			return fmt.Errorf("qualification filter %q/%q: %w", search.Term, search.Location, err)
		}

		ids, err := r.dispatchStage(batch, search.Term, search.Location, qualified)
		if err != nil {
			return fmt.Errorf("dispatch %q/%q: %w", search.Term, search.Location, err)
		}
		completed = append(completed, ids...)
	}

	if err := r.completeStage(ctx, batch, completed); err != nil {
		return err
	}

	// Only a fully successful run moves the last-run marker.
	if err := r.DB.SetLastRun(r.today().Format(store.LastRunLayout)); err != nil {
		return fmt.Errorf("record last run: %w", err)
	}
	return nil
}

// resume pulls records stranded at stage by a previous interrupted run,
// skipping ids already in the working set. Records that advanced past this
// stage are invisible here because their stage column has moved on.
func (r *Runner) resume(stage domain.Stage, have map[string]bool) ([]domain.Posting, error) {
	records, err := r.DB.QueryByStage(stage, false)
	if err != nil {
		return nil, fmt.Errorf("resume query %s: %w", stage, err)
	}

	var out []domain.Posting
	for _, rec := range records {
		if have[rec.Posting.ID] {
			continue
		}
		have[rec.Posting.ID] = true
		out = append(out, rec.Posting)
	}
	if len(out) > 0 {
		log.Printf("[pipeline] resuming %d interrupted posting(s) at %s", len(out), stage)
	}
	return out, nil
}

func idSet(jobs []domain.Posting) map[string]bool {
	m := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		m[j.ID] = true
	}
	return m
}
