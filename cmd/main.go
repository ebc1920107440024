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

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/api"
	"hireinn/jobboard-service/internal/config"
	"hireinn/jobboard-service/internal/db"
	"hireinn/jobboard-service/internal/feed"
	"hireinn/jobboard-service/internal/identity"
	"hireinn/jobboard-service/internal/ingest"
	"hireinn/jobboard-service/internal/matching"
	"hireinn/jobboard-service/internal/notify"
	"hireinn/jobboard-service/internal/pipeline"
	"hireinn/jobboard-service/internal/prep"
	"hireinn/jobboard-service/internal/profile"
	"hireinn/jobboard-service/internal/resume"
	"hireinn/jobboard-service/internal/source"
	"hireinn/jobboard-service/internal/telemetry"
	"hireinn/jobboard-service/internal/tracker"
)

const (
	serviceName    = "jobboard-service"
	serviceVersion = "1.0.0"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func registerTracer(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) error {
	shutdown, err := telemetry.InitTracer(context.Background(), serviceName, serviceVersion, cfg.OTELCollectorURL)
	if err != nil {
		return err
	}
	if cfg.OTELCollectorURL != "" {
		logger.Info("tracing enabled", zap.String("collector", cfg.OTELCollectorURL))
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

// newPostgresPool returns nil without DATABASE_URL; every store then falls
// back to memory.
func newPostgresPool(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("postgres connected")

	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		pool.Close()
		return nil
	}})
	return pool, nil
}

// newRedisClient returns nil without REDIS_URL. A configured but unreachable
// Redis only disables event publishing.
func newRedisClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, application events disabled", zap.Error(err))
		return nil
	}
	logger.Info("redis connected")

	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		return rdb.Close()
	}})
	return rdb
}

func newNATSConnection(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*nats.Conn, error) {
	if cfg.NATSURL == "" {
		return nil, nil
	}
	nc, err := ingest.Connect(cfg.NATSURL, serviceName, cfg.NATSConnTimeout)
	if err != nil {
		return nil, err
	}
	logger.Info("nats connected", zap.String("url", cfg.NATSURL))

	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		return nc.Drain()
	}})
	return nc, nil
}

func newAggregator(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (*pipeline.Aggregator, error) {
	catalog, err := source.NewCatalogAdapter()
	if err != nil {
		return nil, err
	}
	return pipeline.New(logger,
		source.NewStoreAdapter(pool, logger),
		catalog,
		source.NewTheirStackAdapter(cfg.TheirStackAPIKey, cfg.TheirStackCountry, cfg.HTTPTimeout, logger),
		source.NewJSearchAdapter(cfg.RapidAPIKey, cfg.HTTPTimeout, logger),
	), nil
}

func newFeedService(cfg *config.Config, agg *pipeline.Aggregator, logger *zap.Logger) *feed.Service {
	w := matching.DefaultWeights()
	w.Threshold = cfg.MatchThreshold
	return feed.NewService(agg, matching.NewScorer(w), cfg.PageSize, cfg.MaxPageSize, logger)
}

func newTrackerService(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) *tracker.Service {
	var store tracker.Store = tracker.NewMemoryStore()
	if pool != nil {
		store = tracker.NewPGStore(pool)
	}

	sender := notify.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, logger)
	if !sender.Enabled() {
		logger.Warn("RESEND_API_KEY not set, confirmation emails disabled")
	}

	// A typed nil *RedisPublisher would not compare equal to nil.
	var publisher tracker.Publisher
	if rdb != nil {
		publisher = tracker.NewRedisPublisher(rdb)
	}
	return tracker.NewService(store, sender, publisher, logger)
}

func newProfileService(pool *pgxpool.Pool, logger *zap.Logger) *profile.Service {
	var store profile.Store = profile.NewMemoryStore()
	if pool != nil {
		store = profile.NewPGStore(pool)
	}
	return profile.NewService(store, logger)
}

func newIdentity(cfg *config.Config, logger *zap.Logger) api.Identifier {
	if cfg.GoogleClientID == "" && !cfg.TrustGatewayHeaders {
		logger.Warn("no GOOGLE_CLIENT_ID and gateway headers untrusted, every caller is anonymous")
	}
	return identity.NewVerifier(cfg.GoogleClientID, cfg.TrustGatewayHeaders)
}

func newPrepGenerator(cfg *config.Config, logger *zap.Logger) (*prep.Generator, error) {
	providers, err := prep.NewProviders(context.Background(), prep.Keys{
		Groq:   cfg.GroqAPIKey,
		OpenAI: cfg.OpenAIAPIKey,
		Gemini: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		logger.Warn("no LLM keys configured, interview prep serves static guides")
	}
	return prep.NewGenerator(providers, cfg.PrepCacheSize, cfg.PrepCacheTTL, logger), nil
}

func newHandler(
	feedSvc *feed.Service,
	trackerSvc *tracker.Service,
	profiles *profile.Service,
	prepGen *prep.Generator,
	ident api.Identifier,
	agg *pipeline.Aggregator,
	logger *zap.Logger,
) *api.Handler {
	return api.NewHandler(feedSvc, trackerSvc, profiles, prepGen, ident, agg.Sources(), logger)
}

func registerResumeLicense(cfg *config.Config, logger *zap.Logger) {
	if cfg.UnidocLicenseKey == "" {
		return
	}
	if err := resume.SetLicenseKey(cfg.UnidocLicenseKey); err != nil {
		logger.Warn("unidoc license rejected, PDF resumes may fail", zap.Error(err))
	}
}

// registerIngest wires the Adzuna cron. Fetched jobs go to NATS when it is
// configured and straight into Postgres otherwise; either way a store is
// required.
func registerIngest(lc fx.Lifecycle, cfg *config.Config, pool *pgxpool.Pool, nc *nats.Conn, logger *zap.Logger) {
	fetcher := ingest.NewAdzunaFetcher(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry, cfg.HTTPTimeout, logger)
	if pool == nil || !fetcher.Enabled() {
		logger.Info("ingest disabled", zap.Bool("store", pool != nil), zap.Bool("adzuna", fetcher.Enabled()))
		return
	}

	store := ingest.NewStoreSink(pool)
	var sink ingest.Sink = store
	if nc != nil {
		sink = ingest.NewNATSSink(nc, logger)

		sub := ingest.NewSubscriber(nc, store, logger)
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error { return sub.Start() },
			OnStop:  func(context.Context) error { return sub.Stop() },
		})
	}

	worker := ingest.NewWorker(fetcher, ingest.NewVerifier(cfg.IngestRedFlags), sink, cfg.IngestLocation, ingest.DefaultMaxPages, logger)
	scheduler := ingest.NewScheduler(worker, ingest.NewRotation(cfg.IngestTerms), store, cfg.IngestIntervalHours, logger)

	// Cycles outlive the OnStart context.
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return scheduler.Start(runCtx) },
		OnStop: func(ctx context.Context) error {
			cancel()
			scheduler.Stop(ctx)
			return nil
		},
	})
}

func registerHTTPServer(lc fx.Lifecycle, cfg *config.Config, h *api.Handler, logger *zap.Logger) {
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(h, cfg.CORSOrigins, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("jobboard-service listening", zap.String("port", cfg.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down gracefully...")
			return srv.Shutdown(ctx)
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newPostgresPool,
			newRedisClient,
			newNATSConnection,
			newAggregator,
			newFeedService,
			newTrackerService,
			newProfileService,
			newIdentity,
			newPrepGenerator,
			newHandler,
		),
		fx.Invoke(
			registerTracer,
			registerResumeLicense,
			registerIngest,
			registerHTTPServer,
		),
		fx.StopTimeout(15*time.Second),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
