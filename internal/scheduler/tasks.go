// Package scheduler provides the background catalog refresh machinery:
// asynq task definitions, the enqueueing client, the worker and the
// periodic trigger.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCatalogRefresh = "catalog.refresh"

// CatalogRefreshPayload describes one refresh request.
type CatalogRefreshPayload struct {
	JobID   string `json:"jobId"`
	Trigger string `json:"trigger"`
}

// NewCatalogRefreshTask builds the asynq task for a catalog refresh.
func NewCatalogRefreshTask(payload CatalogRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogRefresh, data), nil
}

// ParseCatalogRefreshPayload decodes a refresh task payload.
func ParseCatalogRefreshPayload(task *asynq.Task) (CatalogRefreshPayload, error) {
	var payload CatalogRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CatalogRefreshPayload{}, err
	}
	return payload, nil
}
