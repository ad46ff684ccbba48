package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloodbank-inventory/config"
	deliveryHttp "bloodbank-inventory/internal/delivery/http"
	"bloodbank-inventory/internal/delivery/http/handler"
	"bloodbank-inventory/internal/delivery/http/middleware"
	"bloodbank-inventory/internal/infrastructure/cache"
	"bloodbank-inventory/internal/infrastructure/database"
	"bloodbank-inventory/internal/infrastructure/metrics"
	"bloodbank-inventory/internal/repository"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/internal/usecase"
	"bloodbank-inventory/pkg/jwt"
	"bloodbank-inventory/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Metrics     *metrics.Metrics
	Usecases    *Usecases
}

// Usecases groups the engine entry points
type Usecases struct {
	Bag         usecase.BagUsecase
	Fulfillment usecase.FulfillmentUsecase
	Request     usecase.RequestUsecase
	Donor       usecase.DonorUsecase
	Stock       usecase.StockUsecase
	AuditLog    usecase.AuditLogUsecase
	Session     usecase.SessionUsecase
}

// New creates a new App instance with all dependencies initialized.
// envFile may be missing; the environment then supplies every key.
func New(envFile string) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	// Apply schema migrations
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis, logrus.StandardLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Metrics = metrics.New(cfg.Inventory.LowStockThreshold)

	// Caller identity gate
	jwtService := jwt.NewJWTService(cfg.JWT)
	sessions := service.NewSessionRegistry(logrus.StandardLogger(), redisClient)

	// Initialize all layers
	app.Usecases = initializeUsecases(cfg, db, jwtService, sessions, app.Metrics)
	app.Server = initializeServer(cfg, app.Usecases, jwtService, sessions, app.Metrics)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

// initializeUsecases wires repositories, services and usecases
func initializeUsecases(cfg *config.Config, db *gorm.DB, jwtService *jwt.JWTService, sessions service.SessionRegistry, m *metrics.Metrics) *Usecases {
	log := logrus.StandardLogger()

	// Initialize repositories
	bagRepo := repository.NewBloodBagRepository()
	issuanceRepo := repository.NewBloodIssuanceRepository()
	requestRepo := repository.NewBloodRequestRepository()
	donorRepo := repository.NewDonorProfileRepository()
	summaryRepo := repository.NewStockSummaryRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	stockAggregator := service.NewStockAggregator(log, bagRepo, summaryRepo, cfg.Inventory.LowStockThreshold)
	bagLedger := service.NewBagLedger(log, bagRepo, stockAggregator)
	auditService := service.NewAuditService(log, auditLogRepo)

	return &Usecases{
		Bag:         usecase.NewBagUsecase(db, log, bagLedger, donorRepo, auditService, m),
		Fulfillment: usecase.NewFulfillmentUsecase(db, log, bagLedger, issuanceRepo, requestRepo, donorRepo, auditService, m),
		Request:     usecase.NewRequestUsecase(db, log, requestRepo, bagLedger, auditService),
		Donor:       usecase.NewDonorUsecase(db, log, donorRepo, auditService),
		Stock:       usecase.NewStockUsecase(db, log, stockAggregator, summaryRepo, auditService, m),
		AuditLog:    usecase.NewAuditLogUsecase(db, log, auditLogRepo),
		Session:     usecase.NewSessionUsecase(log, jwtService, sessions),
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, uc *Usecases, jwtService *jwt.JWTService, sessions service.SessionRegistry, m *metrics.Metrics) *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize handlers
	bagHandler := handler.NewBagHandler(uc.Bag, uc.Request, customValidator)
	issuanceHandler := handler.NewIssuanceHandler(uc.Fulfillment, customValidator)
	requestHandler := handler.NewRequestHandler(uc.Request, customValidator)
	donorHandler := handler.NewDonorHandler(uc.Donor, customValidator)
	stockHandler := handler.NewStockHandler(uc.Stock)
	auditLogHandler := handler.NewAuditLogHandler(uc.AuditLog)
	sessionHandler := handler.NewSessionHandler(uc.Session)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessions)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(
		bagHandler,
		issuanceHandler,
		requestHandler,
		donorHandler,
		stockHandler,
		auditLogHandler,
		sessionHandler,
		m.Handler(),
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Bring the cached stock in line with the ledger before serving
	if app.Config.Inventory.ReconcileOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := app.Usecases.Stock.ReconcileAll(ctx); err != nil {
			logrus.Errorf("Failed to reconcile stock on start: %v", err)
		} else {
			logrus.Info("Stock summary reconciled")
		}
		cancel()
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
