package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/policy"
	"jobscout-engine/internal/store"
)

// discoverStage turns raw source candidates into stored postings. Known ids
// are dedup signals; enough of them in a row means the source has reached
// inventory from a previous run, and enumeration stops. Candidates matching
// the exclusion policy are persisted discarded so the 24h-recency dedup still
// sees them next time.
func (r *Runner) discoverStage(ctx context.Context, term, location string, pol policy.Policy) ([]domain.Posting, error) {
	working, err := r.resume(domain.StageDiscovered, map[string]bool{})
	if err != nil {
		return nil, err
	}

	repeats := 0
	var storeErr error

	err = r.Source.Discover(ctx, term, location, func(c Candidate) bool {
		known, err := r.DB.Exists(c.ID)
		if err != nil {
			storeErr = err
			return false
		}
		if known {
			repeats++
			if repeats >= r.Cfg.Pipeline.DedupStopRun {
				log.Printf("[discover] %d consecutive known postings, stopping enumeration", repeats)
				return false
			}
			return true
		}
		repeats = 0

		p := domain.Posting{ID: c.ID, Title: c.Title, Company: c.Company, Location: c.Location}

		if hit, cat := pol.Matches(c.Title, c.Company, c.Location); hit {
			if err := r.createPosting(p, true); err != nil {
				storeErr = err
				return false
			}
			log.Printf("[discover] excluded by %s policy: %s (%s)", cat, c.Title, c.Company)
			return true
		}

		if err := r.createPosting(p, false); err != nil {
			storeErr = err
			return false
		}
		working = append(working, p)
		return true
	})
	if storeErr != nil {
		return nil, storeErr
	}
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	log.Printf("[discover] %d posting(s) in working set", len(working))
	return working, nil
}

func (r *Runner) createPosting(p domain.Posting, discarded bool) error {
	err := r.DB.CreatePosting(p, domain.StageDiscovered, discarded, r.today(), r.Cfg.Pipeline.RetentionDays)
	if errors.Is(err, store.ErrDuplicateKey) {
		// Lost a race we cannot actually have (single writer); treat like
		// the Exists dedup path.
		return nil
	}
	return err
}
