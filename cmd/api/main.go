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
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	cacheAdapter "github.com/Chandra-006/whatsapp-clone/internal/infrastructure/cache/adapter"
	cport "github.com/Chandra-006/whatsapp-clone/internal/infrastructure/cache/port"
	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/database"
	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/metrics"
	queueAdapter "github.com/Chandra-006/whatsapp-clone/internal/infrastructure/queue/adapter"
	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/realtime"
	"github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/application/task"
	repoAdapter "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/adapter"
	messagingHTTP "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/presentation/http"
)

func main() {
	// Load .env if present; production gets env from the runtime.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") != "production" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.NewPoolFromEnv(connectCtx)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	repo := repoAdapter.NewPgMessagingRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Replay guard is optional: without Redis the store-level dedup still holds.
	var cache cport.Cache
	if redisCache, err := cacheAdapter.NewRedisAdapter(); err != nil {
		logger.Warn().Err(err).Msg("cache unavailable, webhook replay guard disabled")
	} else {
		cache = redisCache
		defer redisCache.Close()
	}

	qclient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create queue client")
	}
	defer qclient.Close()

	hub := realtime.NewHub()
	hub.OnDrop(metrics.DeltasDropped.Inc)
	defer hub.Close()

	qserver, err := queueAdapter.NewAsynqServer(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create queue server")
	}
	task.RegisterProcessWebhookTask(qserver, pool, hub, logger)
	go func() {
		if err := qserver.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("queue server stopped")
		}
	}()

	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	messagingHTTP.RegisterRoutes(r, pool, qclient, cache, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		logger.Info().Str("port", port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}
