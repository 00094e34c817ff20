package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/workdeck/avatarproxy/internal/avatar"
	"github.com/workdeck/avatarproxy/internal/cache"
	"github.com/workdeck/avatarproxy/internal/config"
	"github.com/workdeck/avatarproxy/internal/handlers"
	"github.com/workdeck/avatarproxy/internal/origin"
	"github.com/workdeck/avatarproxy/internal/router"
	"github.com/workdeck/avatarproxy/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	gin.SetMode(gin.ReleaseMode)

	sourceStore, err := newSourceStore(cfg, logger)
	if err != nil {
		logger.Error("source store init failed", "error", err)
		os.Exit(1)
	}

	memCache, err := cache.New(cfg.CacheMaxItems)
	if err != nil {
		logger.Error("cache init failed", "error", err)
		os.Exit(1)
	}

	fetcher := origin.NewClient(origin.Config{
		BaseURL:    cfg.OriginBaseURL,
		Timeout:    cfg.OriginTimeout,
		RatePerSec: cfg.OriginRate,
		Burst:      cfg.OriginBurst,
	}, logger)

	svc, err := avatar.NewService(avatar.Options{
		Cache:      memCache,
		Store:      sourceStore,
		Fetcher:    fetcher,
		StaleAfter: cfg.StaleAfter,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("service init failed", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	avatarHandler, err := handlers.NewAvatarHandler(svc, logger)
	if err != nil {
		logger.Error("handler init failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router.New(logger, avatarHandler, handlers.NewStatsHandler(svc)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.ListenAddr, "store_backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newSourceStore(cfg *config.Config, logger *slog.Logger) (store.SourceStore, error) {
	if cfg.StoreBackend == config.StoreBackendS3 {
		return store.NewS3Store(store.S3Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			UseSSL:          cfg.S3UseSSL,
		}, logger)
	}
	return store.NewDiskStore(cfg.AvatarDir, logger)
}
