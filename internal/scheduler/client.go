package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"arcana_backend/platform/config"
)

// Client enqueues catalog refresh tasks.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates an enqueueing client from scheduler configuration.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// TriggerRefresh enqueues a manual catalog refresh and returns its job id.
func (c *Client) TriggerRefresh(ctx context.Context) (string, error) {
	return c.enqueueRefresh(ctx, "manual")
}

func (c *Client) enqueueRefresh(ctx context.Context, trigger string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("scheduler client not configured")
	}

	jobID := uuid.NewString()
	task, err := NewCatalogRefreshTask(CatalogRefreshPayload{JobID: jobID, Trigger: trigger})
	if err != nil {
		return "", err
	}

	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue)); err != nil {
		return "", err
	}
	return jobID, nil
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
