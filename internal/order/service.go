package order

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/santan-uz/santan-bot/internal/notify"
	"github.com/santan-uz/santan-bot/internal/session"
	"github.com/santan-uz/santan-bot/internal/texts"
	"github.com/santan-uz/santan-bot/pkg/metrics"
)

// Customer identifies the Telegram user who placed an order.
type Customer struct {
	ID       int64
	Username string
	FullName string
}

// Service turns a confirmed dialogue session into a durable order record
// and a staff notification.
type Service struct {
	appender      Appender
	notifier      notify.Notifier
	txt           *texts.Catalog
	log           *slog.Logger
	workersChatID int64
	now           func() time.Time
}

// NewService constructs the order service.
func NewService(appender Appender, notifier notify.Notifier, txt *texts.Catalog, log *slog.Logger, workersChatID int64) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		appender:      appender,
		notifier:      notifier,
		txt:           txt,
		log:           log,
		workersChatID: workersChatID,
		now:           time.Now,
	}
}

// Submit notifies staff about the confirmed session and appends it to the
// order log. Both sides are best-effort: a failed staff send or log write
// is reported and counted but never blocks the customer's confirmation.
func (s *Service) Submit(ctx context.Context, customer Customer, sess *session.Session) {
	addr := orDefault(sess.Address, "yo‘q")
	phone := orDefault(sess.Phone, "yo‘q")
	note := orDefault(sess.Note, "—")
	items := orDefault(sess.Items, "—")

	s.notifyStaff(ctx, customer, sess, addr, phone, note, items)

	rec := Record{
		Time:     s.now(),
		UserID:   customer.ID,
		Username: customer.Username,
		Name:     customer.FullName,
		Phone:    phone,
		Address:  addr,
		Location: sess.Location,
		Items:    items,
		Note:     note,
		Total:    sess.CartTotal,
		Status:   StatusSubmitted,
	}

	if err := s.appender.Append(rec); err != nil {
		metrics.RecordOrderAppendFailure()
		s.log.Error("failed to append order record",
			slog.Int64("user_id", customer.ID),
			slog.Any("error", err),
		)
	}

	metrics.RecordOrderSubmitted()
	s.log.Info("order submitted",
		slog.Int64("user_id", customer.ID),
		slog.Int64("total", sess.CartTotal),
	)
}

func (s *Service) notifyStaff(ctx context.Context, customer Customer, sess *session.Session, addr, phone, note, items string) {
	if s.workersChatID == 0 {
		return
	}

	text := s.txt.F("staff.new_order",
		customer.FullName, customer.Username, customer.ID,
		items, addr, phone, note, sess.CartTotal,
	)
	if sess.Location != "" {
		text += s.txt.F("staff.order_location", sess.Location, sess.Location)
	}

	if err := s.notifier.Send(ctx, s.workersChatID, text, "HTML"); err != nil {
		s.log.Error("failed to notify staff about order",
			slog.Int64("user_id", customer.ID),
			slog.Any("error", err),
		)
		return
	}

	if lat, lon, ok := parseLocation(sess.Location); ok {
		title := s.txt.F("staff.venue_title", customer.FullName)
		venueAddr := addr
		if venueAddr == "yo‘q" {
			venueAddr = s.txt.T("staff.venue_fallback_address")
		}
		if err := s.notifier.SendVenue(ctx, s.workersChatID, lat, lon, title, venueAddr); err != nil {
			s.log.Warn("failed to send customer location pin", slog.Any("error", err))
		}
	}
}

func parseLocation(loc string) (lat, lon float64, ok bool) {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, false
	}

	return lat, lon, true
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
