// README: Entry point; loads config, wires stores and services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"movelink/internal/config"
	httptransport "movelink/internal/http"
	"movelink/internal/infra"
	"movelink/internal/logger"
	"movelink/internal/maps"
	"movelink/internal/modules/matching"
	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}
	defer dbPool.Close()

	// The distance cache is optional; without Redis every routing call
	// goes straight to the provider.
	var cache *matching.Cache
	if redisClient, err := infra.NewRedis(cfg.Redis.Addr); err != nil {
		zlog.Warn("redis unavailable, distance cache disabled", zap.Error(err))
	} else {
		cache = matching.NewCache(redisClient, cfg.Matching.CacheTTL)
		defer func() { _ = redisClient.Close() }()
	}

	// Without an API key the estimator runs permanently degraded.
	var router matching.Router
	if cfg.Maps.APIKey != "" {
		routeService, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			zlog.Fatal("maps init", zap.Error(err))
		}
		router = routeService
	} else {
		zlog.Warn("no maps API key, distance estimation degraded")
	}

	requestStore := request.NewStore(dbPool)
	requestSvc := request.NewService(requestStore, zlog)

	moveStore := move.NewStore(dbPool)
	moveSvc := move.NewService(moveStore, zlog)

	estimator := matching.NewEstimator(router, cache, cfg.Matching.DefaultDistanceKm, zlog)
	matchStore := matching.NewPGStore(dbPool, requestStore, moveStore)
	matchingSvc := matching.NewService(matchStore, estimator, cfg.Matching, zlog)

	handler := httptransport.NewRouter(matchingSvc, requestSvc, moveSvc, zlog)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal("server", zap.Error(err))
	}
}
