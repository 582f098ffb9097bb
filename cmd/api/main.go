package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"docvault/internal/audit"
	"docvault/internal/cache"
	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	handlers "docvault/internal/http/handler"
	"docvault/internal/http/middleware"
	"docvault/internal/otel"
	"docvault/internal/repository"
	"docvault/internal/repository/mongo"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
	"docvault/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Metadata store: PostgreSQL by default, MongoDB behind DB_DRIVER=mongo.
	var (
		docRepo   repository.DocumentRepository
		shareRepo repository.ShareGrantRepository
		userRepo  repository.UserRepository
		logRepo   repository.ActivityLogRepository
		pinger    handlers.Pinger
	)
	switch cfg.DBDriver {
	case "mongo":
		mdb, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer mdb.Client().Disconnect(context.Background())

		docRepo = mongo.NewDocumentMongo(mdb)
		shareRepo = mongo.NewShareMongo(mdb)
		userRepo = mongo.NewUserMongo(mdb)
		logRepo = mongo.NewActivityMongo(mdb)
		pinger = database.MongoPinger{Client: mdb.Client()}
	default:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		docRepo = postgres.NewDocumentPostgres(db)
		shareRepo = postgres.NewSharePostgres(db)
		userRepo = postgres.NewUserPostgres(db)
		logRepo = postgres.NewActivityPostgres(db)
		pinger = db
	}

	// Read cache: Redis when configured, otherwise in-process.
	ttl := time.Duration(cfg.CacheTTLSec) * time.Second
	var readCache cache.Store
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		readCache = cache.NewRedis(client, ttl)
	} else {
		readCache = cache.NewMemory(ttl)
	}

	// S3-compatible object storage (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	janitor := storage.NewJanitor(objStore, cfg.CleanupQueueSize)
	janitor.Start(ctx)

	recorder := audit.NewRecorder(logRepo, cfg.AuditFallbackCapacity)

	docSvc := service.NewDocumentService(docRepo, shareRepo, userRepo, logRepo, objStore, janitor, readCache, recorder)
	shareSvc := service.NewSharingService(docRepo, shareRepo, readCache, recorder)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, pinger, docSvc, shareSvc, middleware.Auth(cfg.Auth.JWTSecret))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	if err := app.Shutdown(); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	janitor.Wait()
}
