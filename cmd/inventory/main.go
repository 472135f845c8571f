package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/tair/food-waste/internal/config"
	"github.com/tair/food-waste/internal/inventory"
	"github.com/tair/food-waste/internal/inventory/cache"
	grpcDelivery "github.com/tair/food-waste/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/food-waste/internal/inventory/delivery/http"
	_ "github.com/tair/food-waste/internal/inventory/docs"
	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/internal/inventory/metrics"
	"github.com/tair/food-waste/internal/inventory/sweep"
	"github.com/tair/food-waste/internal/inventory/usecase/command"
	"github.com/tair/food-waste/kafka"
	"github.com/tair/food-waste/pkg/database"
	"github.com/tair/food-waste/pkg/logger"
	"github.com/tair/food-waste/pkg/tracing"
)

const serviceVersion = "1.0.0"

func main() {
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting inventory service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(cfg.ServiceName, serviceVersion, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	}

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(&domain.InventoryItem{}); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	analyticsCache, closeCache := setupCache(ctx, cfg)
	defer closeCache()

	publisher, closePublisher := setupPublisher(cfg)
	defer closePublisher()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Initialize application with Wire DI
	app, err := inventory.InitializeApp(db, cfg, analyticsCache, publisher, m)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize application")
	}

	consumer := startConsumer(ctx, cfg, app.Donate)

	scheduler := sweep.NewScheduler(app.Sweep, cfg.SweepSchedule)
	if err := scheduler.Start(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start sweep scheduler")
	}
	if cfg.SweepRunOnStart {
		go app.Sweep.RunOnce(ctx)
	}

	httpServer := startHTTPServer(cfg, app.Handler, sqlDB)

	checker := grpcDelivery.NewHealthChecker(sqlDB)
	go checker.Run(ctx, 15*time.Second)
	grpcServer := startGRPCServer(cfg.GRPCPort, checker)

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Sweep did not finish before shutdown deadline")
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	checker.Shutdown()
	grpcServer.GracefulStop()

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
	}

	if tp != nil {
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to flush traces")
		}
	}

	logger.Logger.Info().Msg("Inventory service stopped")
}

func setupCache(ctx context.Context, cfg *config.Config) (domain.AnalyticsCache, func()) {
	if cfg.RedisAddr == "" {
		logger.Logger.Info().Msg("REDIS_ADDR not set, analytics cache disabled")
		return cache.Noop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable at startup")
	}

	logger.Logger.Info().
		Str("addr", cfg.RedisAddr).
		Dur("ttl", cfg.CacheTTL).
		Msg("Analytics cache enabled")

	return cache.NewRedisAnalyticsCache(client, cfg.CacheTTL), func() { client.Close() }
}

func setupPublisher(cfg *config.Config) (domain.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, event publishing disabled")
		return kafka.NoopPublisher{}, func() {}
	}

	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka publisher unavailable, event publishing disabled")
		return kafka.NoopPublisher{}, func() {}
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka publisher")
		}
	}
}

func startConsumer(ctx context.Context, cfg *config.Config, donate *command.DonateItemHandler) *kafka.Consumer {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{kafka.TopicDonationClaims})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, donation claims disabled")
		return nil
	}

	consumer.RegisterDonationClaimHandler(func(ctx context.Context, event kafka.DonationClaimedEvent) error {
		_, err := donate.Handle(ctx, command.DonateItemCommand{
			ItemID:  event.ItemID,
			Partner: event.Partner,
		})
		return err
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start Kafka consumer")
	}
	return consumer
}

func startHTTPServer(cfg *config.Config, handler *httpDelivery.InventoryHandler, db *sql.DB) *http.Server {
	router := mux.NewRouter()

	mwConfig := httpDelivery.DefaultMiddlewareConfig(cfg.RequestTimeout)

	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, db)
	httpDelivery.RegisterSwaggerDocs(router, httpDelivery.NewSwaggerHandler())

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	httpDelivery.RegisterMiddlewares(router, mwConfig)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpDelivery.SetupCORS(mwConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	return server
}

func startGRPCServer(port string, checker *grpcDelivery.HealthChecker) *grpc.Server {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen for gRPC")
	}

	server := grpcDelivery.NewServer(checker)

	go func() {
		logger.Logger.Info().Str("port", port).Msg("gRPC server started")
		if err := server.Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	return server
}
