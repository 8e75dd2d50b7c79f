package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/ai"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/config"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/logging"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/places"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/firestore"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/memory"
	miniorepo "github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/minio"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/postgres"
	redisrepo "github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/redis"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/service"
	transport "github.com/AmanKumar9958/AI-Trip-Planner-App/internal/transport/http"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/util"
)

type stores struct {
	trips    ports.TripRepository
	usage    ports.UsageRepository
	sessions ports.SessionStore
	lock     ports.GenerationLock
	closers  []func()
}

func main() {
	cfg := config.Load()

	logger, closeLogs, err := logging.New(cfg.LogLevel, cfg.LogstashTCPAddr)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open stores", zap.Error(err))
	}
	defer func() {
		for _, c := range st.closers {
			c()
		}
	}()

	var storage ports.ObjectStorage
	if cfg.MinIOEnabled() {
		mc, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			logger.Fatal("init object storage", zap.Error(err))
		}
		s := miniorepo.NewStorage(mc, cfg.MinIOPublicURL)
		if err := s.EnsureBucket(ctx, cfg.MinIOBucketShares); err != nil {
			logger.Fatal("ensure share bucket", zap.String("bucket", cfg.MinIOBucketShares), zap.Error(err))
		}
		storage = s
	}

	aiHTTP := &http.Client{Timeout: cfg.AITimeout}
	sdk := ai.NewOpenAIBackend(cfg.AIAPIKey, cfg.AIBaseURL, aiHTTP)
	aiClient := ai.NewClient(
		sdk,
		ai.NewRESTBackend(cfg.AIAPIKey, cfg.AIRestBaseURL, aiHTTP),
		sdk,
		ai.Config{
			Model:             cfg.AIModel,
			FallbackModels:    cfg.AIFallbackModels,
			Preferences:       cfg.AIModelPreferences,
			DiscoveryAttempts: cfg.AIDiscoveryAttempts,
			MaxOutputTokens:   cfg.AIMaxOutputTokens,
		},
		logger.Named("ai"),
	)

	tz, err := places.NewTimezoneFinder()
	if err != nil {
		logger.Warn("timezone lookup disabled", zap.Error(err))
	}
	placesClient := places.NewClient(places.Config{
		APIKey:   cfg.LocationIQAPIKey,
		BaseURL:  cfg.LocationIQBaseURL,
		CacheTTL: cfg.PlacesCacheTTL,
	}, &http.Client{Timeout: 10 * time.Second}, tz, logger.Named("places"))

	authService := service.NewAuthService(
		service.NewGoogleVerifier(cfg.GoogleAudiences),
		service.NewGoogleRevoker(&http.Client{Timeout: 10 * time.Second}),
		st.sessions,
		util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL),
		logger.Named("auth"),
	)
	generationService := service.NewGenerationService(st.trips, st.usage, st.lock, aiClient, service.GenerationServiceConfig{
		DailyLimit:      cfg.DailyTripLimit,
		Location:        cfg.QuotaLocation(),
		LockTTL:         cfg.GenerationLockTTL,
		MaxOutputTokens: cfg.AIMaxOutputTokens,
	}, logger.Named("generation"))
	tripService := service.NewTripService(st.trips, storage, service.TripServiceConfig{
		ShareBucket: cfg.MinIOBucketShares,
	}, logger.Named("trips"))

	e := transport.NewRouter(cfg.AllowOrigins, logger.Named("http"))
	transport.RegisterAuth(e, authService)
	transport.RegisterOptions(e)
	transport.RegisterTrips(e, authService, generationService, tripService)
	transport.RegisterPlaces(e, authService, placesClient)
	transport.RegisterSwagger(e, cfg.SwaggerSpecPath)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Generations in flight run detached from their requests; give them time to persist.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AITimeout+10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	st := &stores{}
	var pgSessions ports.SessionStore

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		st.closers = append(st.closers, func() { db.Close() })
		tables := postgres.Tables{Trips: cfg.TripsCollection, Usage: cfg.UsageCollection}
		if err := postgres.EnsureSchema(ctx, db, tables); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		st.trips = postgres.NewTripRepo(db, cfg.TripsCollection)
		st.usage = postgres.NewUsageRepo(db, cfg.UsageCollection)
		pgSessions = postgres.NewSessionRepo(db, "")
	default:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("connect firestore: %w", err)
		}
		st.closers = append(st.closers, func() { client.Close() })
		st.trips = firestore.NewTripRepo(client, cfg.TripsCollection)
		st.usage = firestore.NewUsageRepo(client, cfg.UsageCollection)
	}

	var redisSessions ports.SessionStore
	if cfg.RedisAddr != "" {
		rdb, err := redisrepo.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		st.closers = append(st.closers, func() { rdb.Close() })
		st.lock = redisrepo.NewLock(rdb)
		redisSessions = redisrepo.NewSessionStore(rdb)
	}
	var sessionBackend string
	st.sessions, sessionBackend = pickSessionStore(redisSessions, pgSessions)
	if st.lock == nil {
		logger.Warn("REDIS_ADDR not set, generation lock is process local")
		st.lock = memory.NewLock()
	}

	logger.Info("stores ready",
		zap.String("trips", cfg.StoreDriver),
		zap.String("sessions", sessionBackend),
		zap.Bool("shared_lock", cfg.RedisAddr != ""),
	)
	return st, nil
}

// pickSessionStore prefers Redis, then the Postgres table, then process memory.
func pickSessionStore(redisSessions, pgSessions ports.SessionStore) (ports.SessionStore, string) {
	switch {
	case redisSessions != nil:
		return redisSessions, "redis"
	case pgSessions != nil:
		return pgSessions, "postgres"
	default:
		return memory.NewSessionStore(), "memory"
	}
}
