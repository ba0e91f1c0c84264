package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apppayroll "github.com/hrpay/backend/internal/application/payroll"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/infrastructure/auth"
	"github.com/hrpay/backend/internal/infrastructure/config"
	"github.com/hrpay/backend/internal/infrastructure/directory"
	"github.com/hrpay/backend/internal/infrastructure/event"
	"github.com/hrpay/backend/internal/infrastructure/logger"
	"github.com/hrpay/backend/internal/infrastructure/notify"
	"github.com/hrpay/backend/internal/infrastructure/persistence"
	"github.com/hrpay/backend/internal/interfaces/http/handler"
	"github.com/hrpay/backend/internal/interfaces/http/middleware"
	"github.com/hrpay/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			HR Payroll API
//	@version		1.0
//	@description	Payroll processing backend: calculation, ledger lifecycle, periods, components, audit

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HR Payroll Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	periodRepo := persistence.NewGormPeriodRepository(db.DB)
	componentRepo := persistence.NewGormComponentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Employee directory client
	employeeDirectory, err := directory.NewHTTPDirectory(&directory.Config{
		BaseURL:        cfg.Directory.BaseURL,
		APIKey:         cfg.Directory.APIKey,
		TimeoutSeconds: cfg.Directory.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to initialize employee directory client", zap.Error(err))
	}

	// Authorizer reads roles from the validated token claims
	authorizer := auth.NewContextAuthorizer()

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	calcEngine := payroll.NewCalculationEngine()
	payrollService := apppayroll.NewPayrollService(
		calcEngine,
		ledgerRepo,
		auditRepo,
		periodRepo,
		componentRepo,
		txScope,
		employeeDirectory,
		authorizer,
		eventBus,
		log,
		cfg.Payroll.LockTimeout,
	)
	periodService := apppayroll.NewPeriodService(periodRepo, log)
	componentService := apppayroll.NewComponentService(componentRepo, log)

	// Webhook notifications for terminal ledger transitions (optional)
	if cfg.Webhook.URL != "" {
		notifier, err := notify.NewWebhookNotifier(&notify.WebhookConfig{
			URL:            cfg.Webhook.URL,
			Secret:         cfg.Webhook.Secret,
			TimeoutSeconds: cfg.Webhook.TimeoutSeconds,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize webhook notifier", zap.Error(err))
		}

		notificationHandler := apppayroll.NewLedgerNotificationHandler(notifier, log)
		eventBus.Subscribe(notificationHandler)
		log.Info("Ledger webhook notifications enabled",
			zap.Strings("event_types", notificationHandler.EventTypes()),
		)
	}

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	payrollHandler := handler.NewPayrollHandler(payrollService)
	periodHandler := handler.NewPeriodHandler(periodService)
	componentHandler := handler.NewComponentHandler(componentService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	ginEngine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	ginEngine.Use(middleware.CORSWithConfig(corsConfig))

	ginEngine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		ginEngine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	ginEngine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(ginEngine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Payroll domain routes
	payrollRoutes := router.NewDomainGroup("payroll", "/payroll")

	// Ledger routes
	payrollRoutes.POST("/ledgers", payrollHandler.Create)
	payrollRoutes.GET("/ledgers", payrollHandler.List)
	payrollRoutes.GET("/ledgers/:id", payrollHandler.GetByID)
	payrollRoutes.GET("/ledgers/:id/audit", payrollHandler.GetAuditTrail)
	payrollRoutes.POST("/ledgers/:id/recalculate", payrollHandler.Recalculate)
	payrollRoutes.POST("/ledgers/:id/approve", payrollHandler.Approve)
	payrollRoutes.POST("/ledgers/:id/pay", payrollHandler.Pay)
	payrollRoutes.POST("/ledgers/:id/reject", payrollHandler.Reject)
	payrollRoutes.POST("/ledgers/:id/cancel", payrollHandler.Cancel)

	// Period routes
	payrollRoutes.POST("/periods", periodHandler.Create)
	payrollRoutes.GET("/periods", periodHandler.List)
	payrollRoutes.GET("/periods/covering", periodHandler.FindCovering)
	payrollRoutes.GET("/periods/:id", periodHandler.GetByID)
	payrollRoutes.POST("/periods/:id/process", periodHandler.StartProcessing)
	payrollRoutes.POST("/periods/:id/close", periodHandler.Close)
	payrollRoutes.POST("/periods/:id/complete", periodHandler.Complete)

	// Component routes
	payrollRoutes.POST("/components", componentHandler.Create)
	payrollRoutes.GET("/components", componentHandler.List)
	payrollRoutes.GET("/components/:id", componentHandler.GetByID)
	payrollRoutes.PUT("/components/:id", componentHandler.Update)
	payrollRoutes.POST("/components/:id/deactivate", componentHandler.Deactivate)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(payrollRoutes).Register(systemRoutes)
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	ginEngine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
