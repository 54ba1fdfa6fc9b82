package main

import (
	"context"
	"ctchen222/tictactoe-engine/internal/auth"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/config"
	"ctchen222/tictactoe-engine/internal/db"
	"ctchen222/tictactoe-engine/internal/logger"
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/internal/server"
	"ctchen222/tictactoe-engine/internal/service"
	"ctchen222/tictactoe-engine/internal/telemetry"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	ctx := context.Background()

	// CONFIG_PATH points at an optional YAML file; the environment always applies.
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	level, _ := cfg.Level()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Options{Endpoint: cfg.OtelEndpoint, Stdout: os.Stdout})
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(level)
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create repositories
	var sessionRepo repository.SessionRepository
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.ConnString)
		if err != nil {
			log.Fatalf("failed to initialize redis: %v", err)
		}
		defer rdb.Close()
		sessionRepo = repository.NewSessionRepository(rdb, cfg.Session.TTL)
	default:
		sessionRepo = repository.NewMemorySessionRepository(cfg.Session.TTL)
	}

	// Create services
	sessionService := service.NewSessionService(sessionRepo, &bot.Calculator{}, cfg.Session.ThinkDelay)
	engineService := service.NewEngineService()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.Session.TTL)

	// Create the Gin-based server
	srv := server.NewServer(engineService, sessionService, tokens)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(srv.Engine(), "http.server"),
	}

	go func() {
		slog.Info("http server started", "http.addr", cfg.HTTPAddr, "session.store", cfg.Session.Store)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server exiting")
}
