package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Karaba21/Innowave/internal/config"
	"github.com/Karaba21/Innowave/internal/event"
	handler "github.com/Karaba21/Innowave/internal/handler/http"
	redisrepo "github.com/Karaba21/Innowave/internal/repository/redis"
	"github.com/Karaba21/Innowave/internal/service"
	"github.com/Karaba21/Innowave/internal/shopify"
	"github.com/Karaba21/Innowave/pkg/health"
	"github.com/Karaba21/Innowave/pkg/httpclient"
	pkgkafka "github.com/Karaba21/Innowave/pkg/kafka"
	"github.com/Karaba21/Innowave/pkg/middleware"
)

// App wires together all dependencies and runs the storefront API.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client for cart persistence.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Kafka producer; event publishing is disabled without brokers.
	var producer *pkgkafka.Producer
	var cartEvents service.CartEventPublisher
	var checkoutEvents service.CheckoutEventPublisher
	if cfg.KafkaEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		eventProducer := event.NewProducer(producer, logger)
		cartEvents = eventProducer
		checkoutEvents = eventProducer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, events will not be published")
	}

	// Storefront client over a retrying HTTP client behind a circuit breaker.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	cbClient := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("shopify-storefront"),
		logger,
	)
	storefront, err := shopify.NewClient(shopify.Config{
		StoreDomain:        cfg.ShopifyStoreDomain,
		APIVersion:         cfg.ShopifyAPIVersion,
		AccessToken:        cfg.ShopifyStorefrontToken,
		FeaturedCollection: cfg.ShopifyFeaturedCollection,
	}, cbClient, logger)
	if err != nil {
		return nil, fmt.Errorf("init storefront client: %w", err)
	}

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	repo := redisrepo.NewCartRepository(rdb, cartTTL)
	cartService := service.NewCartService(repo, cartEvents, logger)
	checkoutService := service.NewCheckoutService(cartService, storefront, checkoutEvents, logger)
	catalogService := service.NewCatalogService(storefront, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = cfg.Environment
	if len(cfg.CORSAllowedOrigins) > 0 && cfg.CORSAllowedOrigins[0] != "" {
		corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	}

	router := handler.NewRouter(handler.RouterConfig{
		CartService:     cartService,
		CheckoutService: checkoutService,
		CatalogService:  catalogService,
		HealthHandler:   healthHandler,
		Logger:          logger,
		CORS:            corsCfg,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		producer:   producer,
		httpServer: httpServer,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
