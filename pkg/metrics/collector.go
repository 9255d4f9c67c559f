// Package metrics exposes Prometheus collectors for the shop bot.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/santan-uz/santan-bot/internal/session"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled updates labeled by action and status",
		},
		[]string{"action", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	stepTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_step_transitions_total",
			Help: "Total number of order dialogue step transitions",
		},
		[]string{"from", "to"},
	)
	ordersSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Total number of confirmed orders",
		},
	)
	orderAppendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_append_failures_total",
			Help: "Total number of failed order log writes",
		},
	)
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Outbound notification sends labeled by kind and status",
		},
		[]string{"kind", "status"},
	)
	broadcastSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_sends_total",
			Help: "Scheduled broadcast deliveries labeled by slot and status",
		},
		[]string{"slot", "status"},
	)
	sessionsByStep = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sessions_by_step",
			Help: "Number of active order sessions per dialogue step",
		},
		[]string{"step"},
	)
)

var trackedSteps = []session.Step{
	session.StepIdle,
	session.StepCollectingItems,
	session.StepCollectingAddress,
	session.StepCollectingPhone,
	session.StepCollectingNote,
	session.StepConfirming,
}

func init() {
	session.RegisterTransitionRecorder(RecordStepTransition)
}

// RecordUpdate increments the update counter and records handling duration.
func RecordUpdate(action, status string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	updatesTotal.WithLabelValues(action, status).Inc()
	updateDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordStepTransition tracks dialogue step transitions.
func RecordStepTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	stepTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordOrderSubmitted increments the confirmed-order counter.
func RecordOrderSubmitted() {
	ordersSubmittedTotal.Inc()
}

// RecordOrderAppendFailure counts order log writes that failed.
func RecordOrderAppendFailure() {
	orderAppendFailuresTotal.Inc()
}

// RecordNotification counts an outbound send attempt result.
func RecordNotification(kind, status string) {
	if kind == "" {
		kind = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	notificationsTotal.WithLabelValues(kind, status).Inc()
}

// RecordBroadcast counts a scheduled broadcast delivery result.
func RecordBroadcast(slot, status string) {
	if slot == "" {
		slot = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	broadcastSendsTotal.WithLabelValues(slot, status).Inc()
}

// SessionCollector periodically gathers session step counts and emits gauges.
type SessionCollector struct {
	machine  *session.Machine
	log      *slog.Logger
	interval time.Duration
}

// NewSessionCollector constructs a collector over the session machine.
func NewSessionCollector(machine *session.Machine, log *slog.Logger, interval time.Duration) *SessionCollector {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &SessionCollector{
		machine:  machine,
		log:      log,
		interval: interval,
	}
}

// Run refreshes the sessions_by_step gauges until ctx is cancelled.
func (c *SessionCollector) Run(ctx context.Context) {
	if c == nil || c.machine == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("session metrics collector stopped")
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

func (c *SessionCollector) collect(ctx context.Context) {
	sessions, err := c.machine.All(ctx)
	if err != nil {
		c.log.Error("failed to collect session metrics", slog.Any("error", err))
		return
	}

	counts := make(map[session.Step]int, len(trackedSteps))
	for _, sess := range sessions {
		counts[sess.Step]++
	}

	for _, step := range trackedSteps {
		sessionsByStep.WithLabelValues(string(step)).Set(float64(counts[step]))
	}
}
