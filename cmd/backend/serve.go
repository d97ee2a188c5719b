package main

import (
	"ChannelTrack-Backend/internal/analytics"
	"ChannelTrack-Backend/internal/auth"
	"ChannelTrack-Backend/internal/config"
	"ChannelTrack-Backend/internal/database"
	"ChannelTrack-Backend/internal/events"
	httpHandler "ChannelTrack-Backend/internal/handler/http"
	"ChannelTrack-Backend/internal/repository"
	"ChannelTrack-Backend/internal/repository/cache"
	"ChannelTrack-Backend/internal/repository/memory"
	"ChannelTrack-Backend/internal/repository/postgres"
	"ChannelTrack-Backend/internal/service"
	"ChannelTrack-Backend/pkg/useragent"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, log, sync := setup()
	defer sync()

	log.Info("starting ChannelTrack service", zap.String("env", cfg.Env), zap.String("storage", cfg.Storage))

	storage, closeStorage, err := newStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	publisher, stopPublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer stopPublisher()

	uaParser, err := useragent.NewParser(cfg.UserAgent.RegexesPath, log)
	if err != nil {
		log.Warn("failed to initialize User-Agent parser, using fallback", zap.Error(err))
		uaParser = useragent.NewFallback(log)
	}

	jwtService := newJWTService(cfg)
	channels := service.NewChannelService(storage, log)

	server := httpHandler.NewServer(httpHandler.Deps{
		Storage:        storage,
		Tracker:        service.NewTracker(storage, uaParser, publisher, log),
		Links:          service.NewLinkService(storage, &cfg.Tracking, publisher, log),
		Stats:          service.NewStatsService(storage, &cfg.Tracking),
		Channels:       channels,
		AuthMiddleware: auth.NewMiddleware(jwtService, cfg.BotToken, log),
		CORSOrigins:    cfg.CORSOrigins,
		Log:            log,
	})

	httpServer := &http.Server{
		Addr:         cfg.Address,
		Handler:      server.SetupRoutes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("address", cfg.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	}
	log.Info("shutting down ChannelTrack service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
	return nil
}

// newStorage выбирает хранилище по конфигу и при необходимости оборачивает его redis кешем
func newStorage(cfg *config.Config, log *zap.Logger) (repository.Storage, func(), error) {
	var (
		storage repository.Storage
		closers []func()
	)

	switch cfg.Storage {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		storage = memory.New()
	case "postgres", "":
		db, err := database.NewConnection(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := database.Close(db, log); err != nil {
				log.Error("failed to close database connection", zap.Error(err))
			}
		})

		if cfg.Database.AutoMigrate {
			log.Info("running database migrations (auto_migrate: true)")
			if err := database.AutoMigrate(db, log); err != nil {
				closeAll(closers)
				return nil, nil, err
			}
		}
		storage = postgres.New(db, log)
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	if cfg.Redis.Enabled {
		rdb := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			// без кеша сервис работает, просто медленнее
			log.Warn("redis unavailable, link cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rdb.Close()
		} else {
			log.Info("link cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.LinkTTL))
			storage = cache.New(storage, rdb, cfg.Redis.LinkTTL, log)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	return storage, func() { closeAll(closers) }, nil
}

// newPublisher запускает диспетчер событий в Kafka или возвращает Nop
func newPublisher(cfg *config.Config, log *zap.Logger) (events.Publisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return events.Nop{}, func() {}, nil
	}

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	dispatcherCfg := analytics.DefaultConfig()
	if cfg.Analytics.Workers > 0 {
		dispatcherCfg.WorkerCount = cfg.Analytics.Workers
	}
	if cfg.Analytics.BufferSize > 0 {
		dispatcherCfg.BufferSize = cfg.Analytics.BufferSize
	}
	if cfg.Analytics.RetryAttempts > 0 {
		dispatcherCfg.RetryAttempts = cfg.Analytics.RetryAttempts
	}
	if cfg.Analytics.RetryDelay > 0 {
		dispatcherCfg.RetryDelay = cfg.Analytics.RetryDelay
	}
	if cfg.Analytics.ShutdownTimeout > 0 {
		dispatcherCfg.ShutdownTimeout = cfg.Analytics.ShutdownTimeout
	}

	dispatcher := analytics.NewDispatcher(producer, log, dispatcherCfg)
	if err := dispatcher.Start(); err != nil {
		_ = producer.Close()
		return nil, nil, fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	log.Info("publishing tracking events to kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic))

	stop := func() {
		if err := dispatcher.Stop(); err != nil {
			log.Error("failed to stop event dispatcher", zap.Error(err))
		}
		if err := producer.Close(); err != nil {
			log.Error("failed to close kafka producer", zap.Error(err))
		}
	}
	return dispatcher, stop, nil
}

func newJWTService(cfg *config.Config) *auth.JWTService {
	return auth.NewJWTService(&auth.JWTConfig{
		SecretKey:     []byte(cfg.JWTSecret),
		TokenDuration: cfg.TokenTTL,
		Issuer:        cfg.Issuer,
	})
}

// closeAll закрывает ресурсы в обратном порядке
func closeAll(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
