// Package notify delivers outbound Telegram messages to customers and
// the staff chat with retry and circuit breaking on transport failures.
package notify

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"strings"

	"gopkg.in/telebot.v3"

	apperrors "github.com/santan-uz/santan-bot/internal/errors"
	"github.com/santan-uz/santan-bot/pkg/metrics"
)

// Notifier sends messages to Telegram chats.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string, opts ...interface{}) error
	SendPhoto(ctx context.Context, chatID int64, photo, caption string, opts ...interface{}) error
	SendVenue(ctx context.Context, chatID int64, lat, lon float64, title, address string) error
}

// Sender abstracts the subset of telebot.Bot used for delivery.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelegramNotifier implements Notifier over a telebot sender.
type TelegramNotifier struct {
	sender  Sender
	log     *slog.Logger
	breaker *apperrors.CircuitBreaker
}

// New constructs a TelegramNotifier.
func New(sender Sender, log *slog.Logger) *TelegramNotifier {
	if log == nil {
		log = slog.Default()
	}

	return &TelegramNotifier{
		sender:  sender,
		log:     log,
		breaker: apperrors.NewCircuitBreaker(),
	}
}

// Send delivers a text message to chatID.
func (n *TelegramNotifier) Send(ctx context.Context, chatID int64, text string, opts ...interface{}) error {
	err := n.deliver(ctx, chatID, text, opts...)
	if err != nil {
		metrics.RecordNotification("message", "error")
		return err
	}

	metrics.RecordNotification("message", "ok")
	return nil
}

// SendPhoto delivers a photo with caption, falling back to a plain text
// message when Telegram rejects the photo payload. The photo argument is
// either an http(s) URL or a local file path.
func (n *TelegramNotifier) SendPhoto(ctx context.Context, chatID int64, photo, caption string, opts ...interface{}) error {
	p := &telebot.Photo{File: photoFile(photo), Caption: caption}

	err := n.deliver(ctx, chatID, p, opts...)
	if err == nil {
		metrics.RecordNotification("photo", "ok")
		return nil
	}

	n.log.Warn("photo send failed, falling back to text",
		slog.Int64("chat_id", chatID),
		slog.Any("error", err),
	)

	if fallbackErr := n.deliver(ctx, chatID, caption, opts...); fallbackErr != nil {
		metrics.RecordNotification("photo", "error")
		return fallbackErr
	}

	metrics.RecordNotification("photo", "fallback")
	return nil
}

func photoFile(photo string) telebot.File {
	if strings.HasPrefix(photo, "http://") || strings.HasPrefix(photo, "https://") {
		return telebot.FromURL(photo)
	}

	return telebot.FromDisk(photo)
}

// SendVenue drops a map pin with a title and address in chatID.
func (n *TelegramNotifier) SendVenue(ctx context.Context, chatID int64, lat, lon float64, title, address string) error {
	venue := &telebot.Venue{
		Location: telebot.Location{Lat: float32(lat), Lng: float32(lon)},
		Title:    title,
		Address:  address,
	}

	err := n.deliver(ctx, chatID, venue)
	if err != nil {
		metrics.RecordNotification("venue", "error")
		return err
	}

	metrics.RecordNotification("venue", "ok")
	return nil
}

func (n *TelegramNotifier) deliver(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) error {
	recipient := telebot.ChatID(chatID)

	err := n.breaker.Call(func() error {
		return apperrors.WithRetry(ctx, func() error {
			_, sendErr := n.sender.Send(recipient, what, opts...)
			if sendErr == nil {
				return nil
			}
			return classify(sendErr)
		})
	})
	if err != nil {
		n.log.Error("notification delivery failed",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// classify wraps transient Telegram failures as retryable transport errors
// and leaves permanent rejections (bad chat, blocked bot) as-is.
func classify(err error) error {
	var flood *telebot.FloodError
	if stderrors.As(err, &flood) {
		return apperrors.NewTransportError(err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return apperrors.NewTransportError(err)
	}

	var tErr *telebot.Error
	if stderrors.As(err, &tErr) && tErr.Code >= 500 {
		return apperrors.NewTransportError(err)
	}

	return err
}
