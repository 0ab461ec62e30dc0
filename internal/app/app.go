package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	analyticshttp "github.com/youneszerotohero-coder/mb-backend/internal/analytics/handler/http"
	analyticspg "github.com/youneszerotohero-coder/mb-backend/internal/analytics/repository/postgres"
	analyticsservice "github.com/youneszerotohero-coder/mb-backend/internal/analytics/service"
	campaignevent "github.com/youneszerotohero-coder/mb-backend/internal/campaign/event"
	campaignhttp "github.com/youneszerotohero-coder/mb-backend/internal/campaign/handler/http"
	campaignpg "github.com/youneszerotohero-coder/mb-backend/internal/campaign/repository/postgres"
	campaignservice "github.com/youneszerotohero-coder/mb-backend/internal/campaign/service"
	carthttp "github.com/youneszerotohero-coder/mb-backend/internal/cart/handler/http"
	cartredis "github.com/youneszerotohero-coder/mb-backend/internal/cart/repository/redis"
	cartservice "github.com/youneszerotohero-coder/mb-backend/internal/cart/service"
	catalogevent "github.com/youneszerotohero-coder/mb-backend/internal/catalog/event"
	cataloghttp "github.com/youneszerotohero-coder/mb-backend/internal/catalog/handler/http"
	catalogpg "github.com/youneszerotohero-coder/mb-backend/internal/catalog/repository/postgres"
	catalogservice "github.com/youneszerotohero-coder/mb-backend/internal/catalog/service"
	"github.com/youneszerotohero-coder/mb-backend/internal/config"
	orderevent "github.com/youneszerotohero-coder/mb-backend/internal/order/event"
	orderhttp "github.com/youneszerotohero-coder/mb-backend/internal/order/handler/http"
	orderpg "github.com/youneszerotohero-coder/mb-backend/internal/order/repository/postgres"
	orderservice "github.com/youneszerotohero-coder/mb-backend/internal/order/service"
	"github.com/youneszerotohero-coder/mb-backend/pkg/database"
	"github.com/youneszerotohero-coder/mb-backend/pkg/health"
	pkgkafka "github.com/youneszerotohero-coder/mb-backend/pkg/kafka"
	"github.com/youneszerotohero-coder/mb-backend/pkg/middleware"
	"github.com/youneszerotohero-coder/mb-backend/pkg/tracing"
)

// App wires together all dependencies and runs the store backend.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Initialize Redis (cart storage).
	redisClient, err := database.NewRedisClient(ctx, &database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Initialize tracing when enabled.
	tracingCfg := tracing.DefaultConfig("store-backend")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTLPEndpoint
	tracingCfg.SampleRate = cfg.TraceSampleRate
	tracingCfg.Enabled = cfg.TracingEnabled

	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour

	categoryRepo := catalogpg.NewCategoryRepository(pool)
	productRepo := catalogpg.NewProductRepository(pool)
	orderRepo := orderpg.NewOrderRepository(pool)
	campaignRepo := campaignpg.NewCampaignRepository(pool)
	analyticsRepo := analyticspg.NewAnalyticsRepository(pool)
	cartRepo := cartredis.NewCartRepository(redisClient, cartTTL)

	catalogProducer := catalogevent.NewProducer(producer, logger)
	orderProducer := orderevent.NewProducer(producer, logger)
	campaignProducer := campaignevent.NewProducer(producer, logger)

	categorySvc := catalogservice.NewCategoryService(categoryRepo, logger)
	productSvc := catalogservice.NewProductService(productRepo, catalogProducer, logger)
	cartSvc := cartservice.NewCartService(cartRepo, productSvc, logger, cartTTL)
	orderSvc := orderservice.NewOrderService(orderRepo, productSvc, orderProducer, logger, cfg.DeliveryFee)
	campaignSvc := campaignservice.NewCampaignService(campaignRepo, productSvc, campaignProducer, logger)
	analyticsSvc := analyticsservice.NewAnalyticsService(analyticsRepo, logger)

	// Export connection pool stats alongside the HTTP metrics.
	prometheus.MustRegister(database.NewPoolStatsCollector(pool))

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	// HTTP router.
	r := chi.NewRouter()
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics())
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing())
	}
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cataloghttp.RegisterRoutes(r, productSvc, categorySvc, logger)
	carthttp.RegisterRoutes(r, cartSvc, logger)
	orderhttp.RegisterRoutes(r, orderSvc, logger)
	campaignhttp.RegisterRoutes(r, campaignSvc, logger)
	analyticshttp.RegisterRoutes(r, analyticsSvc, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Flush pending spans.
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	// Close Redis client.
	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
