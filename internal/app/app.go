// Package app connects the stores and assembles the services shared by the
// server and seed binaries.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"csvinsights/internal/cache"
	"csvinsights/internal/config"
	"csvinsights/internal/llm"
	"csvinsights/internal/logging"
	"csvinsights/internal/repository"
	"csvinsights/internal/service"
	"csvinsights/internal/transport/rest"
	"csvinsights/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// App holds the connected stores and the services built on them
type App struct {
	Config      *config.Config
	Mongo       *mongo.Client
	Redis       *redis.Client
	ReportRepo  repository.ReportRepo
	ReportCache cache.ReportCache

	ReportService   *service.ReportService
	FollowupService *service.FollowupService
	HealthService   *service.HealthService
	AuthService     *service.AuthService
	WSHub           *ws.Hub
}

// New connects MongoDB (required) and Redis (optional) and wires services
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.For("app")

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := mongoClient.Ping(connectCtx, nil); err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Info("connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURI,
	})
	if err := rdb.Ping(connectCtx).Err(); err != nil {
		// The cache is an optimization; reports are still served from MongoDB
		log.WithError(err).Warn("Redis unavailable, continuing without a warm cache")
	} else {
		log.Info("connected to Redis")
	}

	a := &App{
		Config:      cfg,
		Mongo:       mongoClient,
		Redis:       rdb,
		ReportRepo:  repository.NewReportRepo(mongoClient.Database(cfg.MongoDB)),
		ReportCache: cache.NewReportCache(rdb, cfg.CacheTTL),
		WSHub:       ws.NewHub(),
	}

	answerer := llm.NewAnswerer(llm.New(cfg.AI), cfg.AI.RetryDelays)

	a.ReportService = service.NewReportService(a.ReportRepo, a.ReportCache, service.ReportLimits{
		MaxUploadBytes: cfg.MaxUploadBytes,
		ProfileRowCap:  cfg.ProfileRowCap,
		SampleRowCap:   cfg.SampleRowCap,
	})
	a.FollowupService = service.NewFollowupService(a.ReportRepo, a.ReportCache, answerer, a.WSHub, cfg.MaxFollowups)
	a.HealthService = service.NewHealthService(a.ReportRepo, a.ReportCache, cfg.AI)
	a.AuthService = service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret)

	return a, nil
}

// Router builds the HTTP handler
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:        a.AuthService,
		ReportService:      a.ReportService,
		FollowupService:    a.FollowupService,
		HealthService:      a.HealthService,
		WSHub:              a.WSHub,
		MaxUploadBytes:     a.Config.MaxUploadBytes,
		AuthRequired:       a.Config.AuthRequired,
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
	})
}

// Close stops the WebSocket hub and disconnects the stores
func (a *App) Close(ctx context.Context) {
	a.WSHub.Close()
	if err := a.Redis.Close(); err != nil {
		logging.For("app").WithError(err).Warn("close Redis")
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		logging.For("app").WithError(err).Warn("disconnect MongoDB")
	}
}
