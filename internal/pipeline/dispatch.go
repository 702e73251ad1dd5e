package pipeline

import (
	"context"
	"fmt"
	"log"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/store"
)

// dispatchStage folds qualified postings into the run's result batch and
// records them ReadyToSend. Records stranded at ReadyToSend by an interrupted
// run rejoin the batch here so delivery is never lost. Returns the ids staged
// for completion.
func (r *Runner) dispatchStage(batch *domain.Batch, term, location string, qualified []domain.Posting) ([]string, error) {
	stage := domain.StageReadyToSend

	have := idSet(qualified)
	stranded, err := r.resume(domain.StageReadyToSend, have)
	if err != nil {
		return nil, err
	}
	qualified = append(qualified, stranded...)

	ids := make([]string, 0, len(qualified))
	for _, job := range qualified {
		batch.Add(term, location, job.ID, domain.BatchEntry{
			Title:   domain.Truncate(job.Title, r.Cfg.Pipeline.TitleMaxLen),
			Company: domain.Truncate(job.Company, r.Cfg.Pipeline.CompanyMaxLen),
			URL:     job.URL(),
		})

		if err := r.DB.UpdatePosting(job.ID, store.FieldUpdate{Stage: &stage}); err != nil {
			if recordFatal(err) {
				return nil, err
			}
			log.Printf("[dispatch] %s: %v", job.ID, err)
			continue
		}
		ids = append(ids, job.ID)
	}
	return ids, nil
}

// completeStage delivers the batch and, only after successful delivery,
// records every dispatched posting as Completed.
func (r *Runner) completeStage(ctx context.Context, batch *domain.Batch, ids []string) error {
	log.Printf("[send] delivering %d posting(s)", batch.Len())
	if err := r.Notifier.SendBatch(ctx, batch); err != nil {
		return fmt.Errorf("deliver batch: %w", err)
	}

	stage := domain.StageCompleted
	for _, id := range ids {
		if err := r.DB.UpdatePosting(id, store.FieldUpdate{Stage: &stage}); err != nil {
			if recordFatal(err) {
				return err
			}
			log.Printf("[send] %s: %v", id, err)
		}
	}
	return nil
}
