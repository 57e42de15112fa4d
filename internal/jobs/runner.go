// Package jobs runs batches of independent work units on a bounded pool of
// goroutines and reports their completion through callbacks.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Unit is one independently executed piece of a job.
type Unit func(ctx context.Context) error

// Runner executes submitted jobs. Units from all jobs share the worker limit
// of their own job only; jobs do not wait for each other.
type Runner struct {
	workers int
	log     *slog.Logger
	wg      sync.WaitGroup
	active  atomic.Int64
}

// NewRunner creates a Runner that runs at most workers units of a job at once.
func NewRunner(workers int, logger *slog.Logger) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		workers: workers,
		log:     logger.With("component", "jobs"),
	}
}

// Job tracks one submitted batch of units.
type Job struct {
	ID       uuid.UUID
	total    int
	done     atomic.Int64
	finished chan struct{}
}

// Progress returns how many units have completed out of the total.
func (j *Job) Progress() (done, total int) {
	return int(j.done.Load()), j.total
}

// Done is closed after onAllComplete has returned.
func (j *Job) Done() <-chan struct{} {
	return j.finished
}

// Wait blocks until the job has finished.
func (j *Job) Wait() {
	<-j.finished
}

// Submit schedules units and returns immediately.
//
// Units run on a context that keeps ctx's values but ignores its
// cancellation, so a unit that has been submitted always runs to completion.
// onItemComplete is called after each unit with the unit's index and error;
// calls may be concurrent. onAllComplete is called exactly once after every
// unit has completed. Either callback may be nil.
func (r *Runner) Submit(ctx context.Context, units []Unit, onItemComplete func(index int, err error), onAllComplete func()) *Job {
	job := &Job{
		ID:       uuid.New(),
		total:    len(units),
		finished: make(chan struct{}),
	}
	runCtx := context.WithoutCancel(ctx)

	r.log.InfoContext(ctx, "job submitted",
		slog.String("job_id", job.ID.String()),
		slog.Int("units", job.total),
		slog.Int("workers", r.workers),
	)

	r.wg.Add(1)
	r.active.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.active.Add(-1)
		defer close(job.finished)

		var g errgroup.Group
		g.SetLimit(r.workers)

		for i, unit := range units {
			g.Go(func() error {
				err := runUnit(runCtx, unit)
				if err != nil {
					r.log.WarnContext(runCtx, "job unit failed",
						slog.String("job_id", job.ID.String()),
						slog.Int("unit", i),
						slog.String("error", err.Error()),
					)
				}
				if onItemComplete != nil {
					onItemComplete(i, err)
				}
				done := job.done.Add(1)
				r.log.DebugContext(runCtx, "job progress",
					slog.String("job_id", job.ID.String()),
					slog.Int64("done", done),
					slog.Int("total", job.total),
				)
				// Unit errors are reported through the callback; returning
				// them would only surface the first one from Wait.
				return nil
			})
		}
		_ = g.Wait()

		if onAllComplete != nil {
			onAllComplete()
		}
		r.log.InfoContext(runCtx, "job finished",
			slog.String("job_id", job.ID.String()),
			slog.Int("units", job.total),
		)
	}()

	return job
}

// Active returns the number of submitted jobs that have not finished.
func (r *Runner) Active() int {
	return int(r.active.Load())
}

// Wait blocks until every job submitted so far has finished. It is used for
// graceful shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func runUnit(ctx context.Context, unit Unit) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("unit panicked: %v\n%s", rec, debug.Stack())
		}
	}()
	return unit(ctx)
}
