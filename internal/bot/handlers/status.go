package handlers

import (
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/santan-uz/santan-bot/internal/catalog"
	"github.com/santan-uz/santan-bot/internal/texts"
	"github.com/santan-uz/santan-bot/pkg/config"
)

// NewStatusHandler reports bot configuration to the owner. Everyone else is
// silently ignored. The bot token is masked down to its edges.
func NewStatusHandler(txt *texts.Catalog, store catalog.Store, cfg config.Config) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		if cfg.Staff.OwnerUserID != 0 && sender.ID != cfg.Staff.OwnerUserID {
			return nil
		}

		dbState := txt.T("status.db_empty")
		if cats, err := store.ListCategories(contextOf(c)); err == nil && len(cats) > 0 {
			dbState = txt.T("status.db_ok")
		}

		body := txt.F("status.body",
			maskToken(cfg.Bot.Token),
			cfg.Staff.WorkersChatID,
			joinGroupIDs(txt, cfg.Staff.ClientGroupIDs),
			cfg.Broadcast.Timezone,
			cfg.Broadcast.MorningHour,
			cfg.Broadcast.EveningHour,
			dbState,
		)

		return c.Send(body, telebot.ModeHTML)
	}
}

func maskToken(token string) string {
	if len(token) < 10 {
		return "(missing)"
	}
	return token[:6] + "..." + token[len(token)-6:]
}

func joinGroupIDs(txt *texts.Catalog, ids []int64) string {
	if len(ids) == 0 {
		return txt.T("status.no_groups")
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
