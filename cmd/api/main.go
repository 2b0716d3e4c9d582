// Command api serves the motorcycle registry and the simulated live position
// feed.
//
//	@title			Delivery Tracking API
//	@version		1.0
//	@description	Motorcycle registry and simulated live position feed.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	_ "github.com/delivery-system/ms-delivery/docs"
	"github.com/delivery-system/ms-delivery/internal/api"
	"github.com/delivery-system/ms-delivery/internal/api/handler"
	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
	"github.com/delivery-system/ms-delivery/internal/core/service"
	"github.com/delivery-system/ms-delivery/internal/infrastructure/config"
	"github.com/delivery-system/ms-delivery/internal/infrastructure/db/mongo"
	"github.com/delivery-system/ms-delivery/internal/infrastructure/db/redis"
	"github.com/delivery-system/ms-delivery/internal/infrastructure/queue"
	"github.com/delivery-system/ms-delivery/internal/infrastructure/routefile"
	"github.com/delivery-system/ms-delivery/internal/infrastructure/supervise"
	"github.com/delivery-system/ms-delivery/internal/infrastructure/ws"
	"github.com/delivery-system/ms-delivery/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "ms-delivery",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The route is loaded once and shared by every tracking loop. A bad file
	// is fatal: there is nothing to replay.
	route, err := routefile.LoadFile(cfg.Tracking.RouteFile)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedRoute) {
			log.Fatal().Err(err).Str("file", cfg.Tracking.RouteFile).Msg("route file is malformed")
		}
		log.Fatal().Err(err).Str("file", cfg.Tracking.RouteFile).Msg("failed to load route file")
	}
	log.Info().Str("file", cfg.Tracking.RouteFile).Int("points", route.Size()).Msg("route loaded")

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "ms-delivery",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		if err := mongo.Disconnect(mongoClient); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close failed")
			}
		}()
	}

	// --- Repositories and services ---
	motorcycleRepo := mongo.NewMotorcycleRepository(db)
	if err := motorcycleRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create motorcycle indexes")
	}
	sessionRepo := mongo.NewTrackingSessionRepository(db)
	motorcycleService := service.NewMotorcycleService(motorcycleRepo, logger.For("motorcycles"))

	// --- Emission path ---
	// supervisor -> dispatcher -> (redis -> relay ->) hub -> websocket clients
	tree := supervise.NewTree(log, supervise.TreeConfig{ShutdownTimeout: cfg.ShutdownTimeout})
	hub := ws.NewHub(log)
	tree.AddTrackingService(supervise.Func{Name: "websocket-hub", Run: hub.Serve})

	var (
		target    ports.Broadcaster = hub
		positions ports.PositionStore
	)
	if rdb != nil {
		cache := redis.NewPositionCache(rdb, 0)
		positions = cache
		target = redis.NewBroadcaster(rdb, cache, log)
		relay := redis.NewRelay(rdb, hub, log)
		tree.AddTrackingService(supervise.Func{Name: "redis-relay", Run: relay.Serve})
	}

	dispatcher := queue.NewDispatcher(cfg.Broadcast.Workers, cfg.Broadcast.Buffer, target, log)
	tree.AddTrackingService(supervise.Func{Name: "dispatcher", Run: dispatcher.Serve})

	tracker := service.NewTrackingSupervisor(route, motorcycleService, dispatcher, sessionRepo, service.TrackingConfig{
		Interval:        cfg.Tracking.Interval,
		ThresholdMeters: cfg.Tracking.ThresholdMeters,
	}, log)
	tree.AddTrackingService(supervise.Func{Name: "tracking-supervisor", Run: tracker.Serve})

	// --- HTTP ---
	router := api.NewRouter(api.Handlers{
		Health:     handler.NewHealthHandler(),
		Readiness:  handler.NewHealthDependenciesHandler(db, rdb),
		Motorcycle: handler.NewMotorcycleHandler(motorcycleService),
		Tracking:   handler.NewTrackingHandler(tracker, positions, logger.For("tracking-http")),
		Websocket:  handler.NewWebsocketHandler(hub, cfg.CORSOrigins, logger.For("websocket-http")),
	}, cfg.CORSOrigins, logger.For("http"))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	tree.AddAPIService(supervise.NewHTTPService(server, cfg.ShutdownTimeout))

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Bool("redis", rdb != nil).
		Dur("interval", cfg.Tracking.Interval).
		Float64("threshold_m", cfg.Tracking.ThresholdMeters).
		Msg("starting server")

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("supervisor tree stopped with error")
	}
	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			log.Warn().Str("service", svc.Name).Msg("service did not stop in time")
		}
	}
	log.Info().Msg("server stopped")
}
