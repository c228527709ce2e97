package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"arcana_backend/internal/catalog/transport"
	"arcana_backend/platform/config"
	"arcana_backend/platform/logger"
)

// Rebuilder is the catalog operation the worker drives.
type Rebuilder interface {
	Rebuild(ctx context.Context, trigger string) (transport.Snapshot, error)
}

// Worker consumes catalog refresh tasks from the queue.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	rebuilder Rebuilder
	log       *logger.Logger
}

// NewWorker creates the asynq worker from scheduler configuration.
func NewWorker(cfg config.SchedulerConfig, rebuilder Rebuilder, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		rebuilder: rebuilder,
		log:       log,
	}

	mux.HandleFunc(TaskCatalogRefresh, w.handleCatalogRefresh)

	return w, nil
}

func (w *Worker) handleCatalogRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCatalogRefreshPayload(task)
	if err != nil {
		return err
	}

	snapshot, err := w.rebuilder.Rebuild(ctx, payload.Trigger)
	if err != nil {
		w.log.Error("catalog refresh failed", "jobId", payload.JobID, "trigger", payload.Trigger, "error", err)
		return err
	}

	w.log.Info("catalog refresh completed",
		"jobId", payload.JobID,
		"trigger", payload.Trigger,
		"items", len(snapshot.Products),
	)
	return nil
}

// Run serves tasks until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
