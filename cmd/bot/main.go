package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/santan-uz/santan-bot/internal/bot"
	"github.com/santan-uz/santan-bot/internal/cart"
	"github.com/santan-uz/santan-bot/internal/catalog"
	"github.com/santan-uz/santan-bot/internal/database"
	"github.com/santan-uz/santan-bot/internal/health"
	"github.com/santan-uz/santan-bot/internal/idempotency"
	"github.com/santan-uz/santan-bot/internal/jobs"
	jobhandlers "github.com/santan-uz/santan-bot/internal/jobs/handlers"
	"github.com/santan-uz/santan-bot/internal/notify"
	"github.com/santan-uz/santan-bot/internal/order"
	"github.com/santan-uz/santan-bot/internal/pricing"
	"github.com/santan-uz/santan-bot/internal/session"
	"github.com/santan-uz/santan-bot/internal/texts"
	"github.com/santan-uz/santan-bot/pkg/config"
	"github.com/santan-uz/santan-bot/pkg/graceful"
	"github.com/santan-uz/santan-bot/pkg/logger"
	"github.com/santan-uz/santan-bot/pkg/metrics"
	pkgredis "github.com/santan-uz/santan-bot/pkg/redis"
)

const (
	migrationsDir      = "migrations"
	sentryFlushTimeout = 2 * time.Second
	sessionPollPeriod  = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(*cfg)
	slog.SetDefault(log)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			log.Error("failed to initialize sentry", slog.Any("error", err))
		} else {
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	config.Watch(v, log, func(updated *config.Config) {
		log.Info("configuration reloaded", slog.String("env", updated.AppEnv))
	})

	db, err := sql.Open("postgres", cfg.DB.DSN())
	if err != nil {
		log.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.NewMigrator(db, log).ApplyDir(ctx, migrationsDir); err != nil {
		log.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		client, err := pkgredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Close()
		redisClient = client.Client
	}

	var sessionStorage session.Storage
	if redisClient != nil {
		sessionStorage = session.NewRedisStorage(redisClient, log)
	} else {
		sessionStorage = session.NewMemoryStorage()
	}
	machine := session.NewMachine(sessionStorage, log, redisClient)

	store := catalog.NewPostgresStore(db, log)
	tokens := catalog.NewTokenCodec(cfg.Catalog.TokenTTL, log)
	go tokens.Run(ctx, cfg.Catalog.TokenCleanupInterval)

	cartManager := cart.NewManager(store, pricing.Rules{
		DiscountPercent:  cfg.Pricing.DiscountPercent,
		DeliveryFee:      cfg.Pricing.DeliveryFee,
		FreeShippingOver: cfg.Pricing.FreeShippingOver,
	}, log)

	txt, err := texts.Load()
	if err != nil {
		log.Error("failed to load texts", slog.Any("error", err))
		os.Exit(1)
	}

	tb, err := bot.NewTelebot(*cfg)
	if err != nil {
		log.Error("failed to initialize telegram bot", slog.Any("error", err))
		os.Exit(1)
	}

	notifier := notify.New(tb, log)

	var appender order.Appender
	if cfg.Orders.Backend == "postgres" {
		appender = order.NewPostgresAppender(db)
	} else {
		appender = order.NewCSVAppender(cfg.Orders.CSVPath)
	}
	orders := order.NewService(appender, notifier, txt, log, cfg.Staff.WorkersChatID)

	var idemStore idempotency.Store
	if redisClient != nil {
		idemStore = idempotency.NewRedisStore(redisClient, log)
	} else {
		idemStore = idempotency.NewMemoryStore()
	}
	idem := idempotency.NewManager(idemStore, log)

	var (
		queue     jobs.Manager
		scheduler jobs.Scheduler
		worker    jobs.Worker
	)
	if cfg.Redis.Enabled && cfg.Broadcast.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		queue = jobs.NewManager(redisOpt, log)
		defer queue.Close()

		scheduler, err = jobs.NewScheduler(redisOpt, cfg.Broadcast, log)
		if err != nil {
			log.Error("failed to build scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		if err := scheduler.RegisterTasks(); err != nil {
			log.Error("failed to register scheduled tasks", slog.Any("error", err))
			os.Exit(1)
		}
		scheduler.Run()

		broadcasts := jobhandlers.NewBroadcastHandler(notifier, txt, cfg.Staff.ClientGroupIDs, log)
		worker = jobs.NewWorker(redisOpt, map[string]int{
			jobs.QueueDefault: 5,
			jobs.QueueLow:     1,
		}, log)
		worker.RegisterHandler(jobs.TaskTypeMorningBroadcast, broadcasts)
		worker.RegisterHandler(jobs.TaskTypeEveningBroadcast, broadcasts)
		go func() {
			if err := worker.Run(); err != nil {
				log.Error("worker stopped", slog.Any("error", err))
			}
		}()
	}

	b, err := bot.New(*cfg, log, tb, bot.Deps{
		Machine:  machine,
		Store:    store,
		Tokens:   tokens,
		Cart:     cartManager,
		Orders:   orders,
		Notifier: notifier,
		Idem:     idem,
		Texts:    txt,
		Queue:    queue,
	})
	if err != nil {
		log.Error("failed to build bot", slog.Any("error", err))
		os.Exit(1)
	}

	go metrics.NewSessionCollector(machine, log, sessionPollPeriod).Run(ctx)

	checker := health.NewChecker(log)
	checker.AddCheck("db", health.NewDBChecker(db))
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(tb))

	srv := graceful.NewServer(log, &http.Server{
		Addr:    cfg.Server.Port,
		Handler: logger.Middleware(buildMux(checker)),
	}, cfg.Server.ShutdownTimeout)
	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", slog.Any("error", err))
		}
	}()

	go b.Start()
	log.Info("bot started",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("orders_backend", cfg.Orders.Backend),
	)

	<-ctx.Done()
	log.Info("shutting down")

	b.Stop()
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if worker != nil {
		worker.Shutdown()
	}
}

func buildMux(checker *health.Checker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		results := checker.Check(r.Context())

		status := http.StatusOK
		for _, result := range results {
			if result != "OK" {
				status = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(results)
	})

	return mux
}
