package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"video_syncer/internal/config"
	"video_syncer/internal/publisher"
	"video_syncer/internal/scheduler"
	"video_syncer/internal/service"
	"video_syncer/internal/source/collector"
	"video_syncer/internal/storage/memory"
	"video_syncer/internal/storage/postgres"
	"video_syncer/internal/transcript"
)

const (
	modeOnce      = "once"
	modeSubscribe = "subscribe"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", modeOnce, "run mode: once or subscribe")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if *mode != modeOnce && *mode != modeSubscribe {
		logger.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to open datastore", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	source := collector.New(collector.Config{
		BaseURL: cfg.Collector.BaseURL,
		Timeout: cfg.Collector.Timeout,
		Retry:   cfg.Collector.Retry,
	}, logger)

	syncService := service.NewSyncService(
		source,
		store,
		service.ParamsFromConfig(cfg.Collector),
		cfg.Sync,
		logger,
	)

	var pipeline scheduler.Pipeline
	if cfg.Pipeline.Enabled {
		api := transcript.New(transcript.Config{
			BaseURL: cfg.Transcript.BaseURL,
			Token:   cfg.Transcript.Token,
			Timeout: cfg.Transcript.Timeout,
			Retry:   cfg.Transcript.Retry,
		}, logger)
		pipeline = service.NewPipeline(store, api, nil, cfg.Pipeline, cfg.Sync, logger)
	}

	var notifier scheduler.Notifier
	if *mode == modeSubscribe {
		notifiers, closers, err := setupNotifiers(cfg, logger)
		if err != nil {
			logger.Error("failed to set up notifiers", "error", err)
			os.Exit(1)
		}
		for _, c := range closers {
			defer c.Close()
		}
		if len(notifiers) > 0 {
			notifier = notifiers
		}
	}

	sched := scheduler.NewScheduler(
		syncService,
		pipeline,
		service.NewSnapshotter(store, cfg.Sync.PageSize, logger),
		notifier,
		cfg.Subscription.Interval,
		cfg.Subscription.PollStep,
		logger,
	)

	logger.Info("starting video syncer",
		"mode", *mode,
		"urls", len(cfg.Collector.URLs),
		"storage", cfg.Storage.Driver,
		"pipeline", cfg.Pipeline.Enabled,
	)

	// first signal lets the running cycle finish, the second aborts it
	go func() {
		sigCh := make(chan os.Signal, 2)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal, finishing current cycle", "signal", sig)
		sched.Stop()
		if *mode == modeOnce {
			cancel()
			return
		}
		sig = <-sigCh
		logger.Warn("received second signal, aborting", "signal", sig)
		cancel()
	}()

	if *mode == modeOnce {
		if _, err := sched.RunOnce(ctx); err != nil {
			logger.Error("sync rejected", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (service.Datastore, func(), error) {
	if cfg.Driver == "memory" {
		logger.Warn("using in-memory datastore, rows are lost on exit")
		return memory.NewStore(), func() {}, nil
	}

	db, err := postgres.Connect(ctx, cfg.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to database", "driver", cfg.Driver)

	return postgres.NewDatastore(db), func() { db.Close() }, nil
}

func setupNotifiers(cfg *config.Config, logger *slog.Logger) (publisher.Multi, []io.Closer, error) {
	var (
		notifiers publisher.Multi
		closers   []io.Closer
	)

	if wh := cfg.Notify.Webhook; wh.Endpoint != "" {
		notifiers = append(notifiers, publisher.NewWebhook(publisher.WebhookConfig{
			Endpoint:        wh.Endpoint,
			Token:           wh.Token,
			WebhookURL:      wh.WebhookURL,
			TemplateID:      wh.TemplateID,
			TemplateVersion: wh.TemplateVersion,
			Timeout:         wh.Timeout,
			Retry:           cfg.Collector.Retry,
		}, logger))
	}

	if mq := cfg.Notify.RabbitMQ; mq.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.RabbitMQConfig{
			URL:        mq.URL,
			Exchange:   mq.Exchange,
			RoutingKey: mq.RoutingKey,
			QueueName:  mq.QueueName,
		}, logger)
		if err != nil {
			return nil, closers, err
		}
		notifiers = append(notifiers, rabbitMQ)
		closers = append(closers, rabbitMQ)
	}

	if k := cfg.Notify.Kafka; len(k.Brokers) > 0 {
		kafka, err := publisher.NewKafka(publisher.KafkaConfig{
			Brokers: k.Brokers,
			Topic:   k.Topic,
		}, logger)
		if err != nil {
			return nil, closers, err
		}
		notifiers = append(notifiers, kafka)
		closers = append(closers, kafka)
	}

	return notifiers, closers, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
