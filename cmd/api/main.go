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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "marketchat/cmd/api/router/v1"
	cacheadapter "marketchat/internal/infrastructure/cache/adapter"
	"marketchat/internal/infrastructure/config"
	"marketchat/internal/infrastructure/database"
	"marketchat/internal/infrastructure/logger"
	queueadapter "marketchat/internal/infrastructure/queue/adapter"
	"marketchat/internal/infrastructure/realtime"
	"marketchat/internal/pkg/conversation/task"
	identityadapter "marketchat/internal/pkg/identity/adapter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer cache.Close()

	ids := identityadapter.NewCachedProvider(identityadapter.NewPgIdentityProvider(pool), cache)

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue client")
	}
	defer queueClient.Close()

	queueServer, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue server")
	}
	task.RegisterMessageNotificationTask(queueServer, ids, log)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			log.Error().Err(err).Msg("queue server stopped")
		}
	}()

	registry := realtime.NewRegistry()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1.RegisterRoutes(r, pool, ids, queueClient, registry, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	registry.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := queueServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("queue shutdown")
	}
}
