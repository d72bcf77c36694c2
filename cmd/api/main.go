package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pdfshare/docs"
	"pdfshare/internal/config"
	"pdfshare/internal/database"
	"pdfshare/internal/database/migration"
	handlers "pdfshare/internal/http/handler"
	"pdfshare/internal/http/middleware"
	"pdfshare/internal/logger"
	"pdfshare/internal/otel"
	"pdfshare/internal/ratelimit"
	"pdfshare/internal/repository/postgres"
	"pdfshare/internal/service"
	"pdfshare/internal/storage"
	"pdfshare/internal/token"
)

const shutdownTimeout = 10 * time.Second

// @title						PDF Share API
// @version					1.0
// @description				Upload PDFs, share them through expiring links and collect page comments.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server_exit", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "pdfshare", log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	objStore, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	counterStore, err := ratelimit.NewStore(cfg.RateLimit)
	if err != nil {
		return err
	}
	commentLimiter := ratelimit.New(counterStore, cfg.RateLimit.Limit, cfg.RateLimit.Window)

	tokens := token.NewManager(cfg.JWT)

	docRepo := postgres.NewDocumentPostgres(db)
	tokenRepo := postgres.NewAccessTokenPostgres(db)
	logRepo := postgres.NewAccessLogPostgres(db)
	commentRepo := postgres.NewCommentPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	docSvc := service.NewDocumentService(objStore, docRepo, log, cfg.MaxUploadBytes)
	shareSvc := service.NewShareService(docRepo, tokenRepo, tokens, log)
	commentSvc := service.NewCommentService(commentRepo, docRepo, userRepo, log)
	publicSvc := service.NewPublicService(tokenRepo, docRepo, logRepo, objStore, commentSvc, tokens, log)
	authSvc := service.NewAuthService(userRepo, tokens, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "pdfshare"),
	)
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:      "pdfshare",
		ErrorHandler: handlers.ErrorHandler(log),
		// Multipart overhead on top of the largest accepted file.
		BodyLimit: int(cfg.MaxUploadBytes) + 1<<20,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Env != "production"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, Content-Disposition",
	}))
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:             db,
		Documents:      docSvc,
		Shares:         shareSvc,
		Comments:       commentSvc,
		Public:         publicSvc,
		Auth:           authSvc,
		Tokens:         tokens,
		CommentLimiter: commentLimiter,
		Metrics:        metrics,
		Links:          handlers.ShareLinks{FrontendURL: cfg.FrontendURL},
		Log:            log,
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

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("server_starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	return app.ShutdownWithTimeout(shutdownTimeout)
}
