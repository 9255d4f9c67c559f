// Package handlers implements the asynq task handlers for scheduled jobs.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/santan-uz/santan-bot/internal/jobs"
	"github.com/santan-uz/santan-bot/internal/notify"
	"github.com/santan-uz/santan-bot/internal/texts"
	"github.com/santan-uz/santan-bot/pkg/metrics"
)

// BroadcastHandler fans a scheduled announcement out to the client groups.
type BroadcastHandler struct {
	notifier notify.Notifier
	txt      *texts.Catalog
	groupIDs []int64
	log      *slog.Logger
}

// NewBroadcastHandler constructs a BroadcastHandler.
func NewBroadcastHandler(notifier notify.Notifier, txt *texts.Catalog, groupIDs []int64, log *slog.Logger) *BroadcastHandler {
	if log == nil {
		log = slog.Default()
	}

	return &BroadcastHandler{
		notifier: notifier,
		txt:      txt,
		groupIDs: groupIDs,
		log:      log,
	}
}

// ProcessTask delivers the announcement to every configured group. A failed
// group is logged and skipped so one bad chat ID cannot starve the rest.
func (h *BroadcastHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload jobs.BroadcastPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.Error("broadcast: failed to decode payload",
			slog.String("task_type", t.Type()),
			slog.Any("error", err),
		)
		return err
	}

	message := h.txt.T("broadcast." + payload.Slot)
	if message == "" || message == "broadcast."+payload.Slot {
		h.log.Warn("broadcast: unknown slot", slog.String("slot", payload.Slot))
		return nil
	}

	for _, groupID := range h.groupIDs {
		if err := h.notifier.Send(ctx, groupID, message); err != nil {
			metrics.RecordBroadcast(payload.Slot, "error")
			h.log.Error("broadcast: failed to send",
				slog.String("slot", payload.Slot),
				slog.Int64("group_id", groupID),
				slog.Any("error", err),
			)
			continue
		}

		metrics.RecordBroadcast(payload.Slot, "ok")
	}

	h.log.Info("broadcast: delivered",
		slog.String("slot", payload.Slot),
		slog.Int("groups", len(h.groupIDs)),
	)

	return nil
}
