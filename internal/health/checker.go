// Package health reports whether the bot's backing services are reachable.
package health

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/telebot.v3"
)

// Each check gets its own deadline so one hung dependency cannot stall
// the whole /healthz response.
const checkTimeout = 3 * time.Second

// Checkable is a single dependency probe.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// Checker runs a set of named dependency probes.
type Checker struct {
	log    *slog.Logger
	checks map[string]Checkable
}

func NewChecker(log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		log:    log,
		checks: make(map[string]Checkable),
	}
}

// AddCheck registers a probe under a component name. Empty names and nil
// probes are ignored.
func (c *Checker) AddCheck(name string, check Checkable) {
	if name == "" || check == nil {
		return
	}
	c.checks[name] = check
}

// Check probes every registered component and maps its name to "OK" or the
// failure message.
func (c *Checker) Check(ctx context.Context) map[string]string {
	results := make(map[string]string, len(c.checks))

	for name, check := range c.checks {
		results[name] = c.probe(ctx, name, check)
	}

	return results
}

func (c *Checker) probe(ctx context.Context, name string, check Checkable) string {
	probeCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := check.HealthCheck(probeCtx); err != nil {
		c.log.Error("health check failed",
			slog.String("component", name),
			slog.Any("error", err),
		)
		return err.Error()
	}

	return "OK"
}

// DBChecker probes the products and orders database.
type DBChecker struct {
	db *sql.DB
}

func NewDBChecker(db *sql.DB) *DBChecker {
	return &DBChecker{db: db}
}

func (c *DBChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.db == nil {
		return sql.ErrConnDone
	}
	return c.db.PingContext(ctx)
}

// Pinger is the slice of redis.Client the redis probe needs.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisChecker probes the session and idempotency store.
type RedisChecker struct {
	pinger Pinger
}

func NewRedisChecker(pinger Pinger) *RedisChecker {
	return &RedisChecker{pinger: pinger}
}

func (c *RedisChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.pinger == nil {
		return redis.ErrClosed
	}
	return c.pinger.Ping(ctx).Err()
}

// TelegramChecker reports whether the bot completed its getMe handshake.
type TelegramChecker struct {
	bot *telebot.Bot
}

func NewTelegramChecker(bot *telebot.Bot) *TelegramChecker {
	return &TelegramChecker{bot: bot}
}

func (c *TelegramChecker) HealthCheck(context.Context) error {
	if c == nil || c.bot == nil || c.bot.Me == nil {
		return errors.New("telegram bot not connected")
	}
	return nil
}
