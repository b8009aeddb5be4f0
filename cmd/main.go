package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-service/internal/cache"
	"task-service/internal/config"
	"task-service/internal/controller"
	"task-service/internal/database"
	"task-service/internal/queue"
	"task-service/internal/repository"
	"task-service/internal/routes"
	"task-service/internal/service"
	"task-service/pkg/logger"
)

func main() {
	config.LoadEnvFile(".env")

	ctx := context.Background()
	cfg := config.Load()
	log := logger.NewStdout(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "Invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Database not available; exiting", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		log.Error(ctx, "Schema migration failed", "error", err)
		os.Exit(1)
	}

	var (
		svcOpts     []service.Option
		readyChecks []controller.ReadyCheck
	)

	// Redis read-through cache (optional)
	if cfg.CacheEnabled() {
		client, err := cache.NewClient(ctx, cfg)
		if err != nil {
			log.Error(ctx, "Redis not available; exiting", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		tc := cache.New(client, time.Duration(cfg.CacheTTL)*time.Second, log.With("component", "cache"))
		svcOpts = append(svcOpts, service.WithCache(tc))
		readyChecks = append(readyChecks, controller.ReadyCheck{Name: "redis", Check: tc.Ping})
	}

	// Kafka lifecycle events (optional)
	if cfg.EventsEnabled() {
		queue.EnsureTopic(ctx, cfg, log)
		pub := queue.NewEventPublisher(ctx, cfg, log.With("component", "queue"))
		defer func() {
			if err := pub.Close(); err != nil {
				log.Warn(ctx, "Kafka writer close failed", "error", err)
			}
		}()
		svcOpts = append(svcOpts, service.WithEvents(pub))
		log.Info(ctx, "Task events enabled", "topic", pub.Topic())
	}

	svc := service.NewTaskService(repository.NewTaskRepository(db), log.With("component", "service"), svcOpts...)
	tasks := controller.NewTaskController(svc, log,
		controller.WithDescriptionUpdates(cfg.AllowDescriptionUpdate),
		controller.WithReadyChecks(readyChecks...),
	)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(cfg.APIPrefix, tasks, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		log.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort, "prefix", cfg.APIPrefix)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "Server shutdown error", "error", err)
	}
	log.Info(ctx, "Server stopped")
}
