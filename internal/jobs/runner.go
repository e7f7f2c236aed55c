// Package jobs hosts the periodic maintenance work that the API path never
// does: sweeping stale pending orders, dispatching shipping notifications,
// and refreshing the cached order statistics.
package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Job is one unit of periodic work. Run is invoked on every tick and must be
// safe to call concurrently with request handlers.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Runner drives a set of jobs, one goroutine per job. Jobs also run once
// immediately on start so a fresh process does not wait a full interval for
// its first statistics snapshot.
type Runner struct {
	jobs []Job
}

func NewRunner(jobs ...Job) *Runner {
	return &Runner{jobs: jobs}
}

// Start launches all jobs and blocks until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		go r.loop(ctx, job)
	}
	<-ctx.Done()
}

func (r *Runner) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Every)
	defer ticker.Stop()

	r.runOnce(ctx, job)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx, job)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "job failed", "job", job.Name, "error", err)
		return
	}
	slog.DebugContext(ctx, "job completed", "job", job.Name, "took", time.Since(start).String())
}
