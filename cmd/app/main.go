package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kirana/cmd"
	httpin "kirana/internal/adapters/in/http"
	kafkaout "kirana/internal/adapters/out/kafka"
	"kirana/internal/adapters/out/postgres"
	redisout "kirana/internal/adapters/out/redis"
	"kirana/internal/core/ports"
	"kirana/internal/telemetry"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const serviceName = "kirana"

func main() {
	cfg, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instruments, shutdownTelemetry, err := telemetry.Init(ctx, serviceName, cfg.AppEnv, logger)
	if err != nil {
		log.Fatalf("Error initializing telemetry: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Error("telemetry shutdown", "error", err)
		}
	}()
	metrics := telemetry.NewMetrics(instruments.Meter(serviceName))

	gormDB, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	rdb, err := redisout.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Error parsing REDIS_URL: %v", err)
	}
	defer func() { _ = rdb.Close() }()
	idempotencyStore := redisout.NewIdempotencyStore(rdb, cfg.IdempotencyTTL)

	app := cmd.NewCompositionRoot(cfg, gormDB, publisher, metrics, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatal("Failed to start jobs:", err)
	}
	defer jobManager.StopAll()

	e := newEcho()
	server := httpin.NewServer(app.HTTPHandlers(), httpin.WithLogger(logger), httpin.WithMetrics(metrics))
	server.Register(e, httpin.Idempotency(idempotencyStore, logger))

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
		logger.Info("HTTP server listening", "addr", addr, "env", cfg.AppEnv)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown", "error", err)
	}
}

func newLogger(cfg cmd.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// newPublisher sends domain events to Kafka when brokers are configured and
// drops them otherwise.
func newPublisher(cfg cmd.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, domain events will not be published")
		return kafkaout.NoopPublisher{}, func() {}
	}
	writer := kafkaout.NewWriter(cfg.KafkaBrokers, cfg.KafkaOrderEventsTopic)
	return kafkaout.NewEventPublisher(writer, logger), func() {
		if err := writer.Close(); err != nil {
			logger.Error("close kafka writer", "error", err)
		}
	}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware(serviceName))
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	return e
}
