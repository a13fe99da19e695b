package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/ws"
)

const shutdownTimeout = 30 * time.Second

func main() {
	envFile := pflag.String("env-file", "", "path to an env file (default: .env or .example.env nearby)")
	port := pflag.String("port", "", "HTTP port, overrides HTTP_PORT")
	pflag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load env file:", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Config error:", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.HTTPPort = *port
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logger error:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Service stopped with error", zap.Error(err))
	}
	log.Info("Service gracefully stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	database, err := db.NewDb(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer database.Close()

	if err := db.EnsureAdmin(ctx, database, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	listingRepo := postgresql.NewListingRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()
	repos := storage.Repositories{
		Listings:  listingRepo,
		Archive:   postgresql.NewArchiveRepo(database),
		Bookings:  postgresql.NewBookingRepo(database),
		Reviews:   postgresql.NewReviewRepo(database),
		Companies: postgresql.NewCompanyRepo(database),
		Outbox:    outboxRepo,
	}

	g, gctx := errgroup.WithContext(ctx)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}

	var listingBus cache.Bus
	var redisBus *cache.RedisBus
	if redisClient != nil {
		redisBus = cache.NewRedisBus(redisClient, log.Named("cache"))
		listingBus = redisBus
	}
	listingCache := cache.NewListingCache(listingRepo, listingBus, cfg.ListingCacheTTL, log.Named("cache"))
	if err := listingCache.LoadInitialData(ctx); err != nil {
		log.Warn("Listing cache warm-up failed, starting cold", zap.Error(err))
	}
	if redisBus != nil {
		g.Go(func() error { return redisBus.Run(gctx, listingCache) })
	}

	hub := notify.NewHub()
	var pubsub notify.PubSub = hub
	if redisClient != nil {
		redisPubSub := notify.NewRedisPubSub(redisClient, hub, log.Named("redis"))
		pubsub = redisPubSub
		g.Go(func() error { return redisPubSub.Run(gctx) })
	}

	dispatcher := notify.NewDispatcher(
		postgresql.NewProfileRepo(database),
		postgresql.NewNotificationRepo(database),
		pubsub,
		cfg.PushTimeout,
		log.Named("notify"),
	)

	stg := storage.NewPostgresStorage(database, repos, dispatcher, listingCache, cfg.KafkaBookingTopic, log.Named("storage"))

	var producer kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewBrokerProducer(cfg.KafkaBrokers, log.Named("kafka"))
	} else {
		producer = kafka.NewLogProducer(log.Named("kafka"))
	}
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxAttempts:  cfg.OutboxMaxAttempts,
	}, log.Named("outbox"))

	auditManager := server.NewAuditManager(
		server.NewOutboxAuditSink(database, outboxRepo, cfg.KafkaAuditTopic),
		cfg.AuditWorkers,
		cfg.AuditBatchSize,
		cfg.AuditFlushTimeout,
		log.Named("audit"),
	)

	wsHandler := ws.NewHandler(dispatcher, pubsub, log.Named("ws"))
	srv := server.New(stg, dispatcher, postgresql.NewUserRepo(database), auditManager, wsHandler, log.Named("http"))

	publisher.Start(gctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.HTTPPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		err := srv.Shutdown(shutdownCtx)
		// Stopping the publisher also closes the producer.
		publisher.Shutdown()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
