package handlers

import (
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/jobs"
	"github.com/santan-uz/santan-bot/internal/texts"
)

// NewBroadcastCommandHandler lets the owner push one of the daily
// announcements right away instead of waiting for its scheduled hour.
// Without a queue (Redis disabled) the command reports itself unavailable.
func NewBroadcastCommandHandler(txt *texts.Catalog, queue jobs.Manager, ownerUserID int64, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		if ownerUserID != 0 && sender.ID != ownerUserID {
			return nil
		}

		if queue == nil {
			return c.Send(txt.T("broadcast.unavailable"))
		}

		slot := broadcastSlot(c.Text())

		var (
			task *asynq.Task
			err  error
		)
		switch slot {
		case "morning":
			task, err = jobs.NewMorningBroadcastTask()
		case "evening":
			task, err = jobs.NewEveningBroadcastTask()
		default:
			return c.Send(txt.T("broadcast.usage"))
		}
		if err != nil {
			return err
		}

		if _, err := queue.Enqueue(contextOf(c), task, asynq.Queue(jobs.QueueLow)); err != nil {
			log.Error("broadcast enqueue failed", slog.String("slot", slot), slog.Any("error", err))
			return err
		}

		return c.Send(txt.F("broadcast.queued", slot))
	}
}

func broadcastSlot(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return strings.ToLower(fields[1])
}
