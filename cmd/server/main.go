package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/bloodbank/backend/internal/application/catalog"
	stockapp "github.com/bloodbank/backend/internal/application/stock"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/bloodbank/backend/internal/infrastructure/auth"
	"github.com/bloodbank/backend/internal/infrastructure/cache"
	"github.com/bloodbank/backend/internal/infrastructure/config"
	"github.com/bloodbank/backend/internal/infrastructure/event"
	"github.com/bloodbank/backend/internal/infrastructure/logger"
	"github.com/bloodbank/backend/internal/infrastructure/persistence"
	"github.com/bloodbank/backend/internal/interfaces/http/handler"
	"github.com/bloodbank/backend/internal/interfaces/http/middleware"
	"github.com/bloodbank/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

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

	log.Info("Starting blood bank reagent inventory backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Idempotency store: Redis when reachable, in-memory otherwise
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Repositories
	batchRepo := persistence.NewGormReagentBatchRepository(db.DB)
	transactionRepo := persistence.NewGormStockTransactionRepository(db.DB)
	dispositionRepo := persistence.NewGormDispositionRecordRepository(db.DB)
	reagentRepo := persistence.NewGormReagentRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	validator := stock.NewActionValidator(actionPolicyFromConfig(cfg.Policy))
	dispositionService := stockapp.NewDispositionService(
		batchRepo, dispositionRepo, reagentRepo, txScope, validator, log,
	)
	dispositionService.SetIdempotencyStore(idempotencyStore, shared.IdempotencyConfig{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
	})
	intakeService := stockapp.NewIntakeService(batchRepo, txScope, log)
	withdrawalService := stockapp.NewWithdrawalService(batchRepo, txScope, nil, log)
	stockCountService := stockapp.NewStockCountService(batchRepo, txScope, log)
	expiryService := stockapp.NewExpiryService(batchRepo, reagentRepo, nil, log)
	ledgerService := stockapp.NewLedgerService(transactionRepo, log)
	reagentService := catalogapp.NewReagentService(reagentRepo, batchRepo, log)
	supplierService := catalogapp.NewSupplierService(supplierRepo, log)

	// Event bus and cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(stockapp.NewLowStockAlertHandler(reagentRepo, log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	dispositionService.SetEventPublisher(eventBus)
	intakeService.SetEventPublisher(eventBus)
	withdrawalService.SetEventPublisher(eventBus)
	reagentService.SetEventPublisher(eventBus)

	// Token validation
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(db)
	reagentHandler := handler.NewReagentHandler(reagentService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	batchHandler := handler.NewBatchHandler(intakeService, stockCountService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	dispositionHandler := handler.NewDispositionHandler(dispositionService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	expiryHandler := handler.NewExpiryHandler(expiryService, cfg.Expiry.DashboardHorizonDays)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check outside API versioning
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)))

	// Catalog domain (reagents, suppliers)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/reagents", reagentHandler.Create)
	catalogRoutes.GET("/reagents", reagentHandler.List)
	catalogRoutes.GET("/reagents/low-stock", reagentHandler.ListLowStock)
	catalogRoutes.GET("/reagents/:id", reagentHandler.GetByID)
	catalogRoutes.PUT("/reagents/:id", reagentHandler.Update)
	catalogRoutes.POST("/reagents/:id/recompute", reagentHandler.RecomputeAggregate)
	catalogRoutes.POST("/suppliers", supplierHandler.Create)
	catalogRoutes.GET("/suppliers", supplierHandler.List)
	catalogRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	catalogRoutes.POST("/suppliers/:id/contacts", supplierHandler.AddContact)
	catalogRoutes.DELETE("/suppliers/:id", supplierHandler.Deactivate)

	// Stock domain (batches, withdrawals, dispositions)
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/batches", batchHandler.Register)
	stockRoutes.GET("/batches", batchHandler.ListByReagent)
	stockRoutes.GET("/batches/:id", batchHandler.GetByID)
	stockRoutes.POST("/batches/:id/activate", batchHandler.Activate)
	stockRoutes.POST("/batches/:id/reconcile", batchHandler.Reconcile)
	stockRoutes.GET("/batches/:id/transactions", ledgerHandler.ListByBatch)
	stockRoutes.GET("/transactions", ledgerHandler.List)
	stockRoutes.POST("/withdrawals", withdrawalHandler.Withdraw)
	stockRoutes.POST("/dispositions", dispositionHandler.Record)
	stockRoutes.GET("/dispositions", dispositionHandler.List)
	stockRoutes.GET("/dispositions/:id", dispositionHandler.GetByID)

	// Expiry domain (dashboard, sweep)
	expiryRoutes := router.NewDomainGroup("expiry", "/expiry")
	expiryRoutes.GET("/dashboard", expiryHandler.Dashboard)
	expiryRoutes.POST("/sweep", expiryHandler.Sweep)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(catalogRoutes).
		Register(stockRoutes).
		Register(expiryRoutes).
		Register(systemRoutes)
	r.Setup()

	// Background expiry sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Expiry.SweepEnabled {
		go runExpirySweep(sweepCtx, expiryService, cfg.Expiry.SweepInterval, log)
		log.Info("Expiry sweep enabled", zap.Duration("interval", cfg.Expiry.SweepInterval))
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// actionPolicyFromConfig builds the disposition policy table from
// configuration. A zero threshold means unlimited at that tier.
func actionPolicyFromConfig(cfg config.PolicyConfig) stock.ActionPolicy {
	threshold := func(v float64) *decimal.Decimal {
		if v <= 0 {
			return nil
		}
		d := decimal.NewFromFloat(v)
		return &d
	}

	return stock.ActionPolicy{
		stock.ActionDisposed: {
			MaxQuantitySelfService: threshold(cfg.DisposalSelfServiceMax),
			MaxQuantitySupervisor:  threshold(cfg.DisposalSupervisorMax),
		},
		stock.ActionOtherUse: {
			MaxQuantitySelfService: threshold(cfg.OtherUseSelfServiceMax),
			MaxQuantitySupervisor:  threshold(cfg.OtherUseSupervisorMax),
		},
		stock.ActionConsumedByExpiry: {
			MaxQuantitySelfService: threshold(cfg.ConsumedSelfServiceMax),
			MaxQuantitySupervisor:  threshold(cfg.ConsumedSupervisorMax),
		},
	}
}

// runExpirySweep periodically flags expired batches still holding stock
func runExpirySweep(ctx context.Context, svc *stockapp.ExpiryService, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flagged, err := svc.MarkExpiredBatches(ctx)
			if err != nil {
				log.Error("Expiry sweep failed", zap.Error(err))
				continue
			}
			if flagged > 0 {
				log.Info("Expiry sweep flagged batches", zap.Int("count", flagged))
			}
		}
	}
}
