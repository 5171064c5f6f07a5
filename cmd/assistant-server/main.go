package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"credit-assist/internal/api"
	"credit-assist/internal/capability"
	"credit-assist/internal/common/config"
	"credit-assist/internal/common/database"
	"credit-assist/internal/common/logger"
	"credit-assist/internal/common/observability"
	"credit-assist/internal/convctx"
	"credit-assist/internal/dialogue"
	"credit-assist/internal/entity"
	"credit-assist/internal/intent"
)

func main() {
	bootLog := logger.New("info", "console")
	bootLog.Info("Starting assistant server...")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Context store: Redis when enabled, in-process otherwise ---
	var store convctx.Store
	if cfg.Redis.Enabled {
		redis := database.NewRedis(cfg.Redis)
		if err := redis.Ping(context.Background()); err != nil {
			zapLog.Fatal("redis ping failed", zap.Error(err))
		}
		defer redis.Close()
		store = convctx.NewRedisStore(redis, cfg.Redis.ContextTTL)
		zapLog.Info("Redis context store connected", zap.String("address", cfg.Redis.Address))
	} else {
		store = convctx.NewMemoryStore()
		zapLog.Info("In-memory context store active")
	}

	// --- Model-serving capabilities ---
	classifier := capability.NewIntentClient(cfg.Capabilities.Classifier, log)
	tagger := capability.NewNERClient(cfg.Capabilities.Tagger, log)

	resolver := intent.NewResolver(classifier, log)
	if resolver.InFallback() {
		zapLog.Warn("intent resolver running on keyword fallback")
	}

	dispatcher := dialogue.NewDispatcher(
		resolver,
		entity.NewExtractor(tagger, log),
		store,
		cfg.Dialogue,
		obs,
		log,
	)

	// --- HTTP API ---
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	api.SetupRouter(app, api.NewChatHandler(dispatcher, log))

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		zapLog.Info("API server listening", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Metrics/pprof server on its own port ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		zapLog.Info("Metrics server listening", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Assistant server stopped gracefully")
}
