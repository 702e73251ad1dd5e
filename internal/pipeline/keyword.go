package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/store"
)

// keywordStage fetches each posting's full description and keeps those that
// hit the configured keyword threshold. Postings whose text cannot be
// retrieved within the retry budget are recorded as discarded with the ERROR
// keyword marker; that is a terminal-but-recorded failure, never fatal to the
// run. Resumed records already at KeywordFiltered join the output directly;
// their text was fetched and matched before the interruption.
func (r *Runner) keywordStage(ctx context.Context, input []domain.Posting) ([]domain.Posting, error) {
	have := idSet(input)
	out, err := r.resume(domain.StageKeywordFiltered, have)
	if err != nil {
		return nil, err
	}

	stage := domain.StageKeywordFiltered
	discard := true

	for _, job := range input {
		text, err := r.fetchWithRetries(ctx, job.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			marker := store.KeywordsError
			if uerr := r.DB.UpdatePosting(job.ID, store.FieldUpdate{
				Stage:     &stage,
				Discarded: &discard,
				Keywords:  &marker,
			}); uerr != nil {
				if recordFatal(uerr) {
					return nil, uerr
				}
				log.Printf("[keyword] %s: %v", job.ID, uerr)
			}
			log.Printf("[keyword] marked invalid: %s (%v)", job.ID, err)
			continue
		}

		matched := matchKeywords(text, r.Cfg.Keywords.Match)
		if len(matched) >= r.Cfg.Keywords.Threshold {
			job.Description = strings.TrimSpace(text)
			job.MatchingKeywords = matched
			kws := store.EncodeKeywords(matched)
			if uerr := r.DB.UpdatePosting(job.ID, store.FieldUpdate{
				Description: &job.Description,
				Keywords:    &kws,
				Stage:       &stage,
			}); uerr != nil {
				if recordFatal(uerr) {
					return nil, uerr
				}
				log.Printf("[keyword] %s: %v", job.ID, uerr)
				continue
			}
			out = append(out, job)
			continue
		}

		if uerr := r.DB.UpdatePosting(job.ID, store.FieldUpdate{
			Stage:     &stage,
			Discarded: &discard,
		}); uerr != nil {
			if recordFatal(uerr) {
				return nil, uerr
			}
			log.Printf("[keyword] %s: %v", job.ID, uerr)
		}
	}

	log.Printf("[keyword] %d match(es) out of %d", len(out), len(input))
	return out, nil
}

// fetchWithRetries wraps the text fetcher in the bounded retry budget.
// An empty description counts as a failure.
func (r *Runner) fetchWithRetries(ctx context.Context, id string) (string, error) {
	var text string
	err := r.withRetries(ctx, r.Cfg.Pipeline.FetchAttempts, func() error {
		t, err := r.Fetcher.FetchDescription(ctx, id)
		if err != nil {
			return err
		}
		if strings.TrimSpace(t) == "" {
			return ErrUnavailable
		}
		text = t
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// matchKeywords counts case-insensitive substring hits, preserving the
// configured keyword order and casing in the result.
func matchKeywords(description string, keywords []string) []string {
	desc := strings.ToLower(description)
	var matched []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(desc, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// recordFatal says whether an update failure should abort the run. NotFound
// on a record the pipeline created is fatal to that record only; anything
// else is a store I/O error and kills the run.
func recordFatal(err error) bool {
	return !errors.Is(err, store.ErrNotFound)
}

// errRetriesExhausted marks a bounded-retry budget spent without success.
var errRetriesExhausted = errors.New("pipeline: retries exhausted")

// withRetries runs fn up to attempts times with linearly increasing backoff.
// It always ends in an explicit result: nil on success, or an exhausted error
// wrapping the last failure.
func (r *Runner) withRetries(ctx context.Context, attempts int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt < attempts-1 {
			r.sleep(ctx, time.Duration(attempt+1)*time.Second)
		}
	}
	return fmt.Errorf("%w after %d attempt(s): %v", errRetriesExhausted, attempts, lastErr)
}
