package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/TannuGARG/weekcal/config"
	"github.com/TannuGARG/weekcal/model"
	"github.com/TannuGARG/weekcal/postgres"
	"github.com/TannuGARG/weekcal/rabbitmq"
	weekcalRedis "github.com/TannuGARG/weekcal/redis"
	"github.com/TannuGARG/weekcal/scheduler"
	"github.com/TannuGARG/weekcal/server"
	"github.com/TannuGARG/weekcal/sqlite"
	"github.com/TannuGARG/weekcal/store"
)

func main() {
	configPath := flag.String("config", "weekcal.yaml", "path to the YAML config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("error creating the logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("error loading config", zap.String("path", *configPath), zap.Error(err))
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("error resolving timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	disabledDay, err := cfg.DisabledDay()
	if err != nil {
		logger.Fatal("error resolving disabled weekday", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// setup signal handlers
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt)
	go func() {
		<-signalCh
		cancel()
	}()

	eventStore, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("error opening event store", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer cleanup()

	var publisher server.Publisher
	if cfg.AMQPURL != "" {
		producer := rabbitmq.NewProducer(cfg.AMQPURL)
		if err := producer.Open(); err != nil {
			logger.Fatal("error opening rabbitmq connection", zap.Error(err))
		}
		defer producer.Close()
		logger.Info("opened rabbitmq connection")
		publisher = producer
	}

	if publisher != nil && cfg.Reminder.Cron != "" {
		reminder := scheduler.NewReminder(
			eventStore,
			publisher,
			logger,
			time.Duration(cfg.Reminder.HorizonMinutes)*time.Minute,
			cfg.Reminder.Workers,
		)
		if err := reminder.Start(cfg.Reminder.Cron); err != nil {
			logger.Fatal("error starting reminder scheduler", zap.Error(err))
		}
		defer reminder.Stop()
	} else {
		logger.Info("reminder scan disabled")
	}

	srv := server.New(eventStore, publisher, logger, loc, disabledDay)

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Listen))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down http server", zap.Error(err))
	}
}

// openStore builds the configured storage backend and returns it together
// with a cleanup function.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.EventStore, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case "memory":
		return store.NewMemory(model.SeedEvents(time.Now())), noop, nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.Storage.RedisAddr})
		logger.Info("opened redis connection", zap.String("addr", cfg.Storage.RedisAddr))
		return weekcalRedis.NewStorage(client, model.SeedEvents(time.Now())), func() { client.Close() }, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return sqlite.NewStore(db), func() { db.Close() }, nil

	case "postgres":
		db := postgres.NewDB(cfg.Storage.PostgresURL)
		if err := db.Open(ctx); err != nil {
			return nil, noop, err
		}
		return &postgres.EventStore{DB: db}, func() { db.Close(context.Background()) }, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
