package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-healthcare-records/config"
	deliveryHttp "go-healthcare-records/internal/delivery/http"
	"go-healthcare-records/internal/delivery/http/handler"
	"go-healthcare-records/internal/delivery/http/middleware"
	"go-healthcare-records/internal/infrastructure/cache"
	"go-healthcare-records/internal/infrastructure/database"
	"go-healthcare-records/internal/repository"
	"go-healthcare-records/internal/seed"
	"go-healthcare-records/internal/service"
	"go-healthcare-records/internal/store"
	"go-healthcare-records/internal/usecase"
	"go-healthcare-records/pkg/jwt"
	"go-healthcare-records/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Store       *store.Store
	Server      *http.Server
	log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized.
// configPath is the optional .env file.
func New(ctx context.Context, configPath string) (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App.LogLevel)
	app.log = log
	log.Info("Configuration loaded successfully")

	var opts []store.Option
	opts = append(opts, store.WithLogger(log))

	// PostgreSQL is the durable copy of the in-memory store
	var persistence *service.PersistenceService
	if cfg.App.Persist {
		db, err := database.NewPostgresConnection(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		log.Info("Database connected successfully")

		if err := database.RunMigrations(ctx, db, log); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		persistence = service.NewPersistenceService(db, log, repository.NewRecordRepository())
		opts = append(opts, store.WithCommitter(persistence))
	} else {
		log.Warn("Persistence disabled, records live in memory only")
	}

	app.Store = store.New(opts...)
	if persistence != nil {
		if err := persistence.Hydrate(ctx, app.Store); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to load records: %w", err)
		}
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	server, err := initializeServer(ctx, cfg, app, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures a JSON logrus logger at the given level
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(ctx context.Context, cfg *config.Config, app *App, log *logrus.Logger) (*http.Server, error) {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	tokenStore := service.NewRedisTokenStore(app.RedisClient, log)

	// Audit rows are written only when a database is available
	auditLogRepo := repository.NewAuditLogRepository()
	auditService := service.NewAuditService(app.DB, log, auditLogRepo)

	recordUsecase := usecase.NewRecordUsecase(app.Store, log, auditService, tokenStore)
	authUsecase := usecase.NewAuthUsecase(app.Store, log, jwtService, tokenStore, auditService)
	reportUsecase := usecase.NewReportUsecase(app.Store, log, cfg.Report.LowStockThreshold)

	if cfg.App.Seed {
		if _, err := seed.Run(ctx, app.Store, recordUsecase, log); err != nil {
			return nil, fmt.Errorf("failed to seed sample data: %w", err)
		}
	}

	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	recordHandler := handler.NewRecordHandler(recordUsecase, log)
	reportHandler := handler.NewReportHandler(reportUsecase)

	var auditLogHandler *handler.AuditLogHandler
	if app.DB != nil {
		auditLogUsecase := usecase.NewAuditLogUsecase(app.DB, log, auditLogRepo)
		auditLogHandler = handler.NewAuditLogHandler(auditLogUsecase)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	router := deliveryHttp.NewRouter(authHandler, recordHandler, reportHandler, auditLogHandler, authMiddleware, corsMiddleware)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or a
// termination signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.log.Infof("Server starting on port %s", app.Config.App.Port)
		app.log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	app.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		app.log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()
	app.log.Info("Server shutdown complete")

	if serveErr != nil {
		return fmt.Errorf("server failed: %w", serveErr)
	}
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
