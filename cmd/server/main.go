package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/finbooks/backend/internal/application/billing"
	ledgerapp "github.com/finbooks/backend/internal/application/ledger"
	partnerapp "github.com/finbooks/backend/internal/application/partner"
	"github.com/finbooks/backend/internal/infrastructure/auth"
	"github.com/finbooks/backend/internal/infrastructure/config"
	"github.com/finbooks/backend/internal/infrastructure/event"
	"github.com/finbooks/backend/internal/infrastructure/logger"
	"github.com/finbooks/backend/internal/infrastructure/persistence"
	"github.com/finbooks/backend/internal/infrastructure/persistence/tenant"
	"github.com/finbooks/backend/internal/interfaces/http/handler"
	"github.com/finbooks/backend/internal/interfaces/http/middleware"
	"github.com/finbooks/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//	@title			FinBooks API
//	@version		1.0
//	@description	Multi-tenant small-business accounting backend: invoices, bills, estimates and double-entry ledger posting

//	@contact.name	API Support
//	@contact.email	support@finbooks.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

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
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FinBooks Backend",
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

	// Repositories filter by tenant explicitly; the callback layer catches
	// any query that slips through without a tenant condition.
	tenant.EnableAutoTenantFilter(db.DB, false)

	// Initialize repositories
	invoiceRepo := persistence.NewGormSalesInvoiceRepository(db.DB)
	billRepo := persistence.NewGormPurchaseBillRepository(db.DB)
	estimateRepo := persistence.NewGormEstimateRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	accountRepo := persistence.NewGormChartAccountRepository(db.DB)
	journalRepo := persistence.NewGormJournalEntryRepository(db.DB)
	settingsRepo := persistence.NewGormLedgerSettingsRepository(db.DB)

	// Transaction scope binds the document, sequence and journal repositories
	// to one transaction so finalize, payment and void flows are atomic.
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Company tax profile from configuration
	profile := billingapp.DefaultCompanyProfile(cfg.Company.StateCode)
	if cfg.Company.DefaultTaxRate > 0 {
		profile.DefaultTaxRate = decimal.NewFromFloat(cfg.Company.DefaultTaxRate)
	}

	// Initialize application services
	invoiceService := billingapp.NewInvoiceService(txScope, invoiceRepo, customerRepo, profile)
	billService := billingapp.NewBillService(txScope, billRepo, supplierRepo, profile)
	estimateService := billingapp.NewEstimateService(txScope, estimateRepo, customerRepo, profile)
	accountService := ledgerapp.NewAccountService(accountRepo)
	journalService := ledgerapp.NewJournalService(journalRepo)
	settingsService := ledgerapp.NewSettingsService(settingsRepo, accountRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)

	// JWT service for API authentication
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Document lifecycle events feed the audit trail
	auditHandler := billingapp.NewDocumentAuditHandler(log)
	eventBus.Subscribe(auditHandler)
	log.Info("Event handlers registered",
		zap.Strings("audit_events", auditHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	invoiceService.SetEventPublisher(eventBus)
	billService.SetEventPublisher(eventBus)
	estimateService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	billHandler := handler.NewBillHandler(billService)
	estimateHandler := handler.NewEstimateHandler(estimateService)
	accountHandler := handler.NewAccountHandler(accountService)
	journalHandler := handler.NewJournalHandler(journalService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	customerHandler := handler.NewCustomerHandler(customerService)
	supplierHandler := handler.NewSupplierHandler(supplierService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
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
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Tenant context extraction (JWT claims first, X-Tenant-ID header fallback)
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.SkipPaths = append(tenantConfig.SkipPaths,
		"/api/v1/system/ping",
		"/api/v1/system/info",
	)
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Billing domain (invoices, bills, estimates)
	billingRoutes := router.NewDomainGroup("billing", "/billing")

	// Sales invoice routes
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.POST("/invoices/submit", invoiceHandler.Submit)
	billingRoutes.GET("/invoices/outstanding/:customerId", invoiceHandler.OutstandingByCustomer)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.POST("/invoices/:id/finalize", invoiceHandler.Finalize)
	billingRoutes.POST("/invoices/:id/payments", invoiceHandler.ApplyPayment)
	billingRoutes.POST("/invoices/:id/void", invoiceHandler.Void)

	// Purchase bill routes
	billingRoutes.POST("/bills", billHandler.Create)
	billingRoutes.GET("/bills", billHandler.List)
	billingRoutes.GET("/bills/outstanding/:supplierId", billHandler.OutstandingBySupplier)
	billingRoutes.GET("/bills/:id", billHandler.GetByID)
	billingRoutes.PUT("/bills/:id", billHandler.Update)
	billingRoutes.DELETE("/bills/:id", billHandler.Delete)
	billingRoutes.POST("/bills/:id/submit", billHandler.Submit)
	billingRoutes.POST("/bills/:id/payments", billHandler.ApplyPayment)
	billingRoutes.POST("/bills/:id/void", billHandler.Void)

	// Estimate routes
	billingRoutes.POST("/estimates", estimateHandler.Create)
	billingRoutes.GET("/estimates", estimateHandler.List)
	billingRoutes.POST("/estimates/expire-overdue", estimateHandler.ExpireOverdue)
	billingRoutes.GET("/estimates/:id", estimateHandler.GetByID)
	billingRoutes.PUT("/estimates/:id", estimateHandler.Update)
	billingRoutes.DELETE("/estimates/:id", estimateHandler.Delete)
	billingRoutes.POST("/estimates/:id/send", estimateHandler.Send)
	billingRoutes.POST("/estimates/:id/accept", estimateHandler.Accept)
	billingRoutes.POST("/estimates/:id/decline", estimateHandler.Decline)
	billingRoutes.POST("/estimates/:id/expire", estimateHandler.Expire)
	billingRoutes.POST("/estimates/:id/convert", estimateHandler.ConvertToInvoice)

	// Ledger domain (chart of accounts, journal, settings)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")

	// Chart of accounts routes
	ledgerRoutes.POST("/accounts", accountHandler.Create)
	ledgerRoutes.GET("/accounts", accountHandler.List)
	ledgerRoutes.GET("/accounts/:id", accountHandler.GetByID)
	ledgerRoutes.PUT("/accounts/:id/rename", accountHandler.Rename)
	ledgerRoutes.POST("/accounts/:id/activate", accountHandler.Activate)
	ledgerRoutes.POST("/accounts/:id/deactivate", accountHandler.Deactivate)

	// Journal routes (read-only; entries are created by document posting)
	ledgerRoutes.GET("/journal", journalHandler.List)
	ledgerRoutes.GET("/journal/source/:sourceType/:sourceId", journalHandler.FindBySource)
	ledgerRoutes.GET("/journal/:id", journalHandler.GetByID)
	ledgerRoutes.GET("/trial-balance", journalHandler.CheckTrialBalance)

	// Posting settings routes
	ledgerRoutes.GET("/settings", settingsHandler.Get)
	ledgerRoutes.PUT("/settings", settingsHandler.Update)

	// Partner domain (customers, suppliers)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")

	// Customer routes
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.POST("/customers/:id/activate", customerHandler.Activate)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)

	// Supplier routes
	partnerRoutes.POST("/suppliers", supplierHandler.Create)
	partnerRoutes.GET("/suppliers", supplierHandler.List)
	partnerRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	partnerRoutes.PUT("/suppliers/:id", supplierHandler.Update)
	partnerRoutes.POST("/suppliers/:id/activate", supplierHandler.Activate)
	partnerRoutes.POST("/suppliers/:id/deactivate", supplierHandler.Deactivate)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(billingRoutes).
		Register(ledgerRoutes).
		Register(partnerRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
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
