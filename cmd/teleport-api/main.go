// README: Entry point; loads config, wires services, starts HTTP server and background schedulers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"teleport/internal/ai"
	"teleport/internal/config"
	httptransport "teleport/internal/http"
	"teleport/internal/http/handlers"
	"teleport/internal/infra"
	"teleport/internal/maps"
	"teleport/internal/modules/aiusage"
	"teleport/internal/modules/location"
	"teleport/internal/modules/matching"
	"teleport/internal/modules/pricing"
	"teleport/internal/modules/trip"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		// logger config is not known yet
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	log, err := infra.NewLogger(cfg.Log.Level)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("teleport-api stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	var dbPool *pgxpool.Pool
	if cfg.DB.DSN != "" {
		if cfg.DB.Migrate {
			if err := infra.Migrate(cfg.DB.DSN, log); err != nil {
				return err
			}
		}
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		dbPool = pool
	} else {
		log.Info("db.dsn empty, using in-memory stores")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		redisClient = client
	} else {
		log.Info("redis.addr empty, courier pool and location cache are process-local")
	}

	// Stores: a disabled backend must reach the services as a nil interface,
	// never as a typed nil pointer.
	var (
		offerSource pricing.OfferSource
		tripStore   trip.Store    = trip.NewMemoryStore()
		usageStore  aiusage.Store = aiusage.NewMemoryStore()
		courierPool matching.Pool
		locBackend  location.Backend = location.NewMemoryBackend()
	)
	if dbPool != nil {
		offerSource = pricing.NewStore(dbPool)
		tripStore = trip.NewPGStore(dbPool)
		usageStore = aiusage.NewPGStore(dbPool)
	}
	if redisClient != nil {
		courierPool = matching.NewStore(redisClient)
		locBackend = location.NewRedisBackend(redisClient)
	}

	var geocoder handlers.Resolver = maps.Passthrough{}
	if cfg.Maps.APIKey != "" {
		g, err := maps.NewGeocoder(cfg.Maps.APIKey, "us", log)
		if err != nil {
			return err
		}
		geocoder = g
	} else {
		log.Info("maps.api_key empty, label-only places keep the fallback distance")
	}

	var advisor ai.Advisor = ai.StaticAdvisor{}
	if cfg.AI.GeminiKey != "" {
		g, err := ai.NewGeminiAdvisor(ctx, cfg.AI.GeminiKey)
		if err != nil {
			return err
		}
		defer g.Close()
		advisor = g
	} else {
		log.Info("ai.gemini_key empty, advice is disabled")
	}

	pricingSvc := pricing.NewService(offerSource, log.Named("pricing"))
	matchingSvc := matching.NewService(courierPool, cfg.Matching, log.Named("matching"))
	locations := location.NewCache(locBackend, cfg.Location.TTL)
	tripSvc := trip.NewService(tripStore, matchingSvc, locations, trip.RealClock{}, cfg.Trip, log.Named("trip"))
	defer tripSvc.Shutdown()
	usageSvc := aiusage.NewService(usageStore)

	router, err := httptransport.NewRouter(httptransport.Deps{
		Pricing:           pricingSvc,
		Matching:          matchingSvc,
		Trips:             tripSvc,
		Locations:         locations,
		Geocoder:          geocoder,
		Advisor:           advisor,
		Usage:             usageSvc,
		PreferredProvider: pricing.Provider(cfg.Pricing.PreferredProvider),
		Log:               log.Named("http"),
	})
	if err != nil {
		return err
	}

	if courierPool != nil {
		if err := matchingSvc.Refresh(ctx); err != nil {
			log.Warn("initial courier pool load failed", zap.Error(err))
		}
		go matchingSvc.RunPoolRefresh(ctx)
	}

	return httptransport.NewServer(cfg.HTTP.Addr, router, log).Run(ctx)
}
