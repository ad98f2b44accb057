package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	commerceapp "github.com/storefront/backend/internal/application/commerce"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/printing"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/graphql"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting storefront backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:        cfg.Database.DBName,
		WithVariables: cfg.App.Env == "development",
		SlowQuery:     cfg.Database.SlowQuery,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	descendants, err := cache.NewFactory(cfg.Redis, cfg.Cache, cache.WithLogger(log)).CreateDescendantCache()
	if err != nil {
		log.Fatal("Failed to create category cache", zap.Error(err))
	}
	defer func() { _ = descendants.Close() }()

	var (
		blacklist   auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, revoked tokens are kept in memory", zap.Error(err))
		} else {
			blacklist = auth.NewRedisTokenBlacklist(redisClient)
			defer func() { _ = redisClient.Close() }()
		}
	}

	var memory *storage.MemoryObjectStorage
	var objects interface {
		catalogapp.ObjectStorageService
		commerceapp.InvoiceStorage
	}
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiry(cfg.Storage.PresignExpiry))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare media bucket", zap.Error(err), zap.String("bucket", s3.Bucket()))
		}
		objects = s3
	} else {
		log.Warn("Object storage disabled, media is kept in memory")
		memory = storage.NewMemoryObjectStorage("http://localhost:" + cfg.App.Port + "/media")
		objects = memory
	}

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(cache.NewCategoryInvalidationHandler(descendants, log))
	bus.Subscribe(event.NewAuditLogHandler(log))
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() { _ = bus.Stop(context.Background()) }()

	relations := persistence.DefaultRelations()
	repos := persistence.NewRepositories(db.DB, relations)
	scope := persistence.NewGormTransactionScope(db.DB, relations)

	catalogDeps := catalogapp.Deps{Scope: scope, Repos: repos, Events: bus, Logger: log}
	identityDeps := identityapp.Deps{Scope: scope, Repos: repos, Events: bus, Logger: log}
	commerceDeps := commerceapp.Deps{Scope: scope, Repos: repos, Events: bus, Logger: log}

	var pdf printing.PDFRenderer
	if cfg.Printing.Enabled {
		chrome := printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.ChromeURL,
			NoSandbox:      cfg.Printing.NoSandbox,
			Logger:         log,
		})
		defer func() { _ = chrome.Close() }()
		pdf = chrome
	}
	invoiceRenderer, err := printing.NewInvoiceRenderer(pdf, printing.PaperSize(cfg.Printing.PaperSize))
	if err != nil {
		log.Fatal("Failed to prepare invoice template", zap.Error(err))
	}

	categories := catalogapp.NewCategoryService(catalogDeps, descendants)
	authService := identityapp.NewAuthService(identityDeps, auth.NewJWTService(cfg.JWT), blacklist)
	services := graphql.Services{
		Departments: catalogapp.NewDepartmentService(catalogDeps),
		Categories:  categories,
		Brands:      catalogapp.NewBrandService(catalogDeps, categories),
		Attributes:  catalogapp.NewAttributeService(catalogDeps),
		Templates:   catalogapp.NewTemplateService(catalogDeps, categories),
		Masters:     catalogapp.NewMasterService(catalogDeps, categories),
		Media: catalogapp.NewMediaService(catalogDeps, objects, catalogapp.MediaConfig{
			UploadURLExpiry:   cfg.Storage.PresignExpiry,
			DownloadURLExpiry: cfg.Storage.PresignExpiry,
		}),
		Auth: authService,
		Accounts: identityapp.NewAccountService(identityDeps, identityapp.NewLogOtpSender(log), identityapp.OtpConfig{
			Digits: cfg.Otp.Digits,
			TTL:    cfg.Otp.TTL,
		}),
		UserTypeGroups: identityapp.NewUserTypeGroupService(identityDeps),
		Stores:         commerceapp.NewStoreService(commerceDeps),
		StoreProducts:  commerceapp.NewStoreProductService(commerceDeps),
		Offers:         commerceapp.NewOfferService(commerceDeps),
		Orders:         commerceapp.NewOrderService(commerceDeps),
		Deliveries:     commerceapp.NewDeliveryService(commerceDeps),
		Invoices:       commerceapp.NewInvoiceService(commerceDeps, invoiceRenderer, objects, cfg.Storage.PresignExpiry),
		Policy:         identity.NewAccessPolicy(persistence.NewGormRoleProfileRepository(db.DB), repos.Groups()),
	}

	schema, err := graphql.NewSchema(services, log)
	if err != nil {
		log.Fatal("Failed to build GraphQL schema", zap.Error(err))
	}

	jobs := scheduler.New(log)
	if err := jobs.Register(scheduler.OtpPurgeJob(repos.Otps(), cfg.Otp.PurgeInterval, time.Now, log)); err != nil {
		log.Fatal("Failed to register scheduled job", zap.Error(err))
	}
	if err := jobs.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer func() { _ = jobs.Stop(context.Background()) }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	routes := router.New(router.Config{
		HTTP:        cfg.HTTP,
		GraphQLPath: cfg.GraphQL.Path,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
	}, authService, graphql.NewHandler(schema, cfg.GraphQL.MaxQuerySize), log).
		WithHealthCheck("database", func(context.Context) error { return db.Ping() })
	if memory != nil {
		routes.WithRoutes("/media", memory)
	}
	if redisClient != nil {
		routes.WithHealthCheck("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}
	defer routes.Close()

	engine, err := routes.Engine()
	if err != nil {
		log.Fatal("Failed to configure router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr), zap.String("graphql", cfg.GraphQL.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
