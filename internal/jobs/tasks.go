// Package jobs schedules and processes the daily broadcast tasks.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TaskTypeMorningBroadcast = "broadcast:morning"
	TaskTypeEveningBroadcast = "broadcast:evening"
)

const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// BroadcastPayload names the announcement slot being delivered.
type BroadcastPayload struct {
	Slot string `json:"slot"`
}

// NewMorningBroadcastTask builds the morning announcement task.
func NewMorningBroadcastTask() (*asynq.Task, error) {
	payload, err := json.Marshal(BroadcastPayload{Slot: "morning"})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeMorningBroadcast, payload, asynq.Queue(QueueDefault)), nil
}

// NewEveningBroadcastTask builds the evening announcement task.
func NewEveningBroadcastTask() (*asynq.Task, error) {
	payload, err := json.Marshal(BroadcastPayload{Slot: "evening"})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeEveningBroadcast, payload, asynq.Queue(QueueDefault)), nil
}
