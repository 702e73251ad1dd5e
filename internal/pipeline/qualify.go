package pipeline

import (
	"context"
	"fmt"
	"log"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/store"
)

// qualifyStage asks the inference collaborator whether each posting's
// description fits the operator's education and experience requirements.
// Non-matches have their description cleared (size reclamation) and are
// discarded. An inference failure aborts the run: qualification must never
// silently default to either answer.
func (r *Runner) qualifyStage(ctx context.Context, input []domain.Posting, term string) ([]domain.Posting, error) {
	have := idSet(input)
	out, err := r.resume(domain.StageQualificationFiltered, have)
	if err != nil {
		return nil, err
	}

	stage := domain.StageQualificationFiltered
	discard := true
	yearsExp := r.Cfg.User.YearsExp[term]

	for _, job := range input {
		match, err := r.Matcher.MatchQualifications(ctx, job.Description, r.Cfg.User.Education, yearsExp)
		if err != nil {
			return nil, fmt.Errorf("inference for %s: %w", job.ID, err)
		}

		if match {
			if uerr := r.DB.UpdatePosting(job.ID, store.FieldUpdate{Stage: &stage}); uerr != nil {
				if recordFatal(uerr) {
					return nil, uerr
				}
				log.Printf("[qualify] %s: %v", job.ID, uerr)
				continue
			}
			out = append(out, job)
			continue
		}

		empty := ""
		if uerr := r.DB.UpdatePosting(job.ID, store.FieldUpdate{
			Description: &empty,
			Stage:       &stage,
			Discarded:   &discard,
		}); uerr != nil {
			if recordFatal(uerr) {
				return nil, uerr
			}
			log.Printf("[qualify] %s: %v", job.ID, uerr)
		}
	}

	log.Printf("[qualify] %d match(es) out of %d", len(out), len(input))
	return out, nil
}
