package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/router"
	"github.com/gulfsteel/steelstore-api/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		_ = logger.Init("info", false)
		logger.Fatal(ctx, "failed to load configuration", logger.ErrorF(err))
	}

	if err := logger.Init(cfg.LogLevel, cfg.IsProduction()); err != nil {
		_ = logger.Init("info", false)
		logger.Fatal(ctx, "failed to initialise logger", logger.ErrorF(err))
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info(ctx, "starting steel store API", logger.String("env", cfg.GoEnv), logger.String("db_driver", cfg.DBDriver))

	if err := config.ConnectDatabase(cfg); err != nil {
		logger.Fatal(ctx, "failed to connect to database", logger.ErrorF(err))
	}
	if err := config.Migrate(config.GetDB()); err != nil {
		logger.Fatal(ctx, "failed to migrate database", logger.ErrorF(err))
	}
	logger.Info(ctx, "database migration completed")

	if cfg.StorageEnabled() {
		if _, err := services.InitStorageService(ctx, cfg); err != nil {
			logger.Fatal(ctx, "failed to initialise storage", logger.ErrorF(err))
		}
		logger.Info(ctx, "object storage ready", logger.String("bucket", cfg.AWSS3Bucket))
	} else {
		logger.Warn(ctx, "AWS_S3_BUCKET is not set; attachments and product images are disabled")
	}

	server := newServer(cfg, router.Setup(cfg, nil))

	go func() {
		logger.Info(ctx, "server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed", logger.ErrorF(err))
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", logger.ErrorF(err))
	}
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
