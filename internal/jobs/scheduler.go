package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/santan-uz/santan-bot/pkg/config"
)

// Scheduler registers the daily broadcast cron entries and runs them.
type Scheduler interface {
	RegisterTasks() error
	Run()
	Shutdown()
}

type scheduler struct {
	asynqScheduler *asynq.Scheduler
	broadcast      config.BroadcastConfig
	log            *slog.Logger
}

// NewScheduler builds a Scheduler whose cron entries fire in the shop's
// local timezone.
func NewScheduler(redisOpt asynq.RedisConnOpt, broadcast config.BroadcastConfig, log *slog.Logger) (Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}

	location, err := time.LoadLocation(broadcast.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load broadcast timezone %q: %w", broadcast.Timezone, err)
	}

	return &scheduler{
		asynqScheduler: asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: location}),
		broadcast:      broadcast,
		log:            log,
	}, nil
}

func (s *scheduler) RegisterTasks() error {
	morning, err := NewMorningBroadcastTask()
	if err != nil {
		return err
	}
	if _, err := s.asynqScheduler.Register(hourlyCron(s.broadcast.MorningHour), morning); err != nil {
		return err
	}

	evening, err := NewEveningBroadcastTask()
	if err != nil {
		return err
	}
	if _, err := s.asynqScheduler.Register(hourlyCron(s.broadcast.EveningHour), evening); err != nil {
		return err
	}

	s.log.Info("scheduler: registered broadcast tasks",
		slog.Int("morning_hour", s.broadcast.MorningHour),
		slog.Int("evening_hour", s.broadcast.EveningHour),
		slog.String("timezone", s.broadcast.Timezone),
	)

	return nil
}

func (s *scheduler) Run() {
	s.log.Info("scheduler: starting")

	go func() {
		if err := s.asynqScheduler.Run(); err != nil {
			s.log.Error("scheduler: run failed", slog.Any("error", err))
		}
	}()
}

func (s *scheduler) Shutdown() {
	s.log.Info("scheduler: shutting down")
	s.asynqScheduler.Shutdown()
}

func hourlyCron(hour int) string {
	return fmt.Sprintf("0 %d * * *", hour)
}
