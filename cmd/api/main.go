package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"kycapi/docs"
	"kycapi/internal/config"
	"kycapi/internal/database"
	"kycapi/internal/database/migration"
	"kycapi/internal/events"
	handlers "kycapi/internal/http/handler"
	"kycapi/internal/http/middleware"
	"kycapi/internal/lock"
	"kycapi/internal/metrics"
	"kycapi/internal/otel"
	"kycapi/internal/repository"
	"kycapi/internal/repository/memory"
	"kycapi/internal/repository/postgres"
	"kycapi/internal/service"
	"kycapi/internal/storage"
)

// @title KYC API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	logger := newLogger(cfg.LogLevel, loc)
	slog.SetDefault(logger)

	if err := run(cfg, logger, loc); err != nil {
		logger.Error("server_exit", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger, loc *time.Location) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Repositories: PostgreSQL by default, in-memory for local runs.
	var (
		db       *sql.DB
		pinger   handlers.Pinger
		docRepo  repository.DocumentRepository
		profRepo repository.ProfileRepository
	)
	switch cfg.StoreDriver {
	case "memory":
		docRepo = memory.NewDocumentMemory()
		profRepo = memory.NewProfileMemory()
		logger.Warn("store_driver_memory", slog.String("detail", "data is not persisted"))
	default:
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			return err
		}
		pinger = db
		docRepo = postgres.NewDocumentPostgres(db)
		profRepo = postgres.NewProfilePostgres(db)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	kycMetrics, err := metrics.NewKYC(reg)
	if err != nil {
		return err
	}

	blobs := storage.NewBlobs(objStore,
		storage.WithTimeout(time.Duration(cfg.KYC.BlobTimeoutSec)*time.Second),
		storage.WithObserver(kycMetrics.ObserveBlob),
	)

	var locker lock.Locker = lock.NewKeyed()
	if cfg.Redis.URL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		locker = lock.NewRedis(client, time.Duration(cfg.Redis.LockTTLSec)*time.Second)
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer kp.Close()
		publisher = kp
	}

	deps := service.Deps{
		Blobs:     blobs,
		Documents: docRepo,
		Profiles:  profRepo,
		Locker:    locker,
		Events:    publisher,
		Metrics:   kycMetrics,
		Logger:    logger,
		Limits: service.Limits{
			MaxFileSize:      cfg.KYC.MaxFileSizeBytes,
			AllowedMIMETypes: cfg.KYC.AllowedMIMETypes,
		},
		Validity:        time.Duration(cfg.KYC.VerificationValidityDays) * 24 * time.Hour,
		PresignExpiry:   time.Duration(cfg.KYC.PresignExpirySec) * time.Second,
		BulkConcurrency: cfg.KYC.BulkConcurrency,
		BulkMaxItems:    cfg.KYC.BulkMaxItems,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Multipart overhead on top of the largest accepted file.
		BodyLimit: int(cfg.KYC.MaxFileSizeBytes) + 1<<20,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return isProbe(c.Path())
	})))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))

	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}
	app.Use(promMW.Handler())

	handlers.RegisterRoutes(app, handlers.Services{
		Documents:    service.NewDocumentService(deps),
		Verification: service.NewVerificationService(deps),
		Reviews:      service.NewReviewService(deps),
		Profiles:     service.NewProfileService(deps),
		Reports:      service.NewReportService(deps),
	}, handlers.Options{
		DB:        pinger,
		Gatherer:  reg,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server_starting", slog.String("addr", addr), slog.String("store", cfg.StoreDriver))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server_shutting_down")
		return app.ShutdownWithContext(sctx)
	})
	return g.Wait()
}

func newLogger(level string, loc *time.Location) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			}
			return a
		},
	}))
}

func isProbe(path string) bool {
	switch path {
	case "/health", "/healthz", "/metrics":
		return true
	}
	return false
}
