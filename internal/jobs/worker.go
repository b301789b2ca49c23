package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/a3tai/mcp-pdf-translator/internal/pipeline"
)

// DefaultPollInterval is how often the worker checks for pending jobs when
// the queue is idle.
const DefaultPollInterval = 500 * time.Millisecond

// Worker drains the job store, one document at a time. Each job runs the
// full pipeline to completion or failure; there is no preemption of an
// in-flight run beyond context cancellation at the backend-call boundary.
type Worker struct {
	store    *Store
	pipe     *pipeline.Pipeline
	interval time.Duration
}

// NewWorker creates a worker over a store and a pipeline.
func NewWorker(store *Store, pipe *pipeline.Pipeline) *Worker {
	return &Worker{
		store:    store,
		pipe:     pipe,
		interval: DefaultPollInterval,
	}
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for {
				job, ok := w.store.NextPending()
				if !ok {
					break
				}
				w.process(ctx, job)
			}
		}
	}
}

// process runs one job and records its outcome.
func (w *Worker) process(ctx context.Context, job Job) {
	log.Printf("job %s: translating %s -> %s", job.ID, job.Request.InputPath, job.Request.OutputPath)

	result, err := w.pipe.Run(ctx, job.Request)
	if err != nil {
		stage := pipeline.StageExtracting
		var perr *pipeline.Error
		if errors.As(err, &perr) {
			stage = perr.Stage
		}
		log.Printf("job %s: failed while %s: %v", job.ID, stage, err)
		if merr := w.store.MarkFailed(job.ID, stage, err); merr != nil {
			log.Printf("job %s: record failure: %v", job.ID, merr)
		}
		return
	}

	log.Printf("job %s: done in %s", job.ID, result.Duration.Round(time.Millisecond))
	if merr := w.store.MarkDone(job.ID, result); merr != nil {
		log.Printf("job %s: record result: %v", job.ID, merr)
	}
}
