package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ytharvest/harvester/internal/config"
	"github.com/ytharvest/harvester/internal/db"
	"github.com/ytharvest/harvester/internal/db/repository"
	"github.com/ytharvest/harvester/internal/handler"
	"github.com/ytharvest/harvester/internal/harvest"
	"github.com/ytharvest/harvester/internal/youtube"
	"github.com/ytharvest/harvester/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pool, err := db.NewPool(ctx, &db.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	logger.Log.Info("database connection established")

	client, err := youtube.NewClient(youtube.Config{
		APIKey:            cfg.YouTube.APIKey,
		BaseURL:           cfg.YouTube.BaseURL,
		Timeout:           cfg.YouTube.Timeout,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
	})
	if err != nil {
		logger.Log.Fatal("failed to initialize YouTube client", zap.Error(err))
	}

	harvester := harvest.NewHarvester(client, harvest.Config{
		CommentsEnabled: cfg.Harvest.CommentsEnabled,
	}, logger.Log)

	store := repository.NewStore(pool)
	snapshots := handler.NewSnapshotCache(cfg.Server.SnapshotTTL)
	harvestHandler := handler.NewHarvestHandler(harvester, store, snapshots)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	harvestHandler.RegisterRoutes(router)
	router.GET("/health", harvestHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Log.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}

	logger.Log.Info("server stopped")
}
