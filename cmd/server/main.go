package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/broadcast"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/config"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/database"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/forum"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/logging"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/notify"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/redis"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/server"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/websocket"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *database.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.RunMigrations(ctx); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	return db
}

func setupRedis(cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Failed to ping Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, hub *websocket.Hub, forwarder *broadcast.Forwarder) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if forwarder != nil {
			forwarder.Stop()
		}
		hub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	hub := websocket.NewHub()

	var (
		store     forum.Store
		noteStore domain.NotificationStore
		publisher domain.PushPublisher
		dbHealth  server.HealthCheck
		rdbHealth server.HealthCheck
		forwarder *broadcast.Forwarder
	)

	if cfg.InMemoryMode() {
		slog.Warn("DATABASE_URL not set, using in-memory storage (single instance, not durable)")
		mem := forum.NewInMemoryStore(clock)
		store = mem
		noteStore = mem
		publisher = broadcast.NewLocalPublisher(hub)
	} else {
		db := setupDB(cfg)
		defer db.Close()
		store = db
		noteStore = db
		dbHealth = db.HealthCheck

		redisClient := setupRedis(cfg)
		defer func() { _ = redisClient.Close() }()
		rdbHealth = redisClient.Ping

		publisher = broadcast.NewRedisPublisher(redis.NewPublisher(redisClient))
		forwarder = broadcast.NewForwarder(redis.NewSubscriber(context.Background(), redisClient), hub)
	}

	dispatcher := notify.NewDispatcher(noteStore, publisher, clock)
	forumSvc := forum.NewService(store, dispatcher, publisher, clock)

	srv := server.NewServer(cfg, forumSvc, dispatcher, hub, dbHealth, rdbHealth)

	done := runGracefulShutdown(srv, hub, forwarder)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
