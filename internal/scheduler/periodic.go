package scheduler

import (
	"context"
	"time"

	"arcana_backend/platform/logger"
)

// Enqueuer abstracts how a periodic tick turns into work: enqueue through
// the asynq client, or rebuild inline when no queue is configured.
type Enqueuer interface {
	TriggerRefresh(ctx context.Context) (string, error)
}

// PeriodicRefresher triggers a catalog refresh on a fixed interval.
// Last-writer-wins: the first refresh fires immediately on start so the
// process never serves an empty catalog longer than one build takes.
type PeriodicRefresher struct {
	enqueuer Enqueuer
	interval time.Duration
	log      *logger.Logger
}

// NewPeriodicRefresher creates the interval trigger.
func NewPeriodicRefresher(enqueuer Enqueuer, interval time.Duration, log *logger.Logger) *PeriodicRefresher {
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	return &PeriodicRefresher{
		enqueuer: enqueuer,
		interval: interval,
		log:      log,
	}
}

// Run fires refreshes until the context is canceled. Intended to run in its
// own goroutine.
func (p *PeriodicRefresher) Run(ctx context.Context) {
	p.fire(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fire(ctx)
		}
	}
}

func (p *PeriodicRefresher) fire(ctx context.Context) {
	jobID, err := p.enqueuer.TriggerRefresh(ctx)
	if err != nil {
		p.log.Error("scheduled catalog refresh failed to enqueue", "error", err)
		return
	}
	p.log.Info("scheduled catalog refresh enqueued", "jobId", jobID, "interval", p.interval.String())
}

// InlineRefresher satisfies Enqueuer by rebuilding directly, for deployments
// without Redis.
type InlineRefresher struct {
	rebuilder Rebuilder
}

// NewInlineRefresher wraps a catalog rebuilder as an Enqueuer.
func NewInlineRefresher(rebuilder Rebuilder) *InlineRefresher {
	return &InlineRefresher{rebuilder: rebuilder}
}

// TriggerRefresh rebuilds the catalog inline. The returned id is empty since
// no job is queued.
func (r *InlineRefresher) TriggerRefresh(ctx context.Context) (string, error) {
	_, err := r.rebuilder.Rebuild(ctx, "scheduled")
	return "", err
}
