package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant_backend/internal/auth"
	"restaurant_backend/internal/config"
	"restaurant_backend/internal/database"
	"restaurant_backend/internal/events"
	"restaurant_backend/internal/handlers"
	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/migrations"
	"restaurant_backend/internal/redis"
	"restaurant_backend/internal/repository"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/payment"
	"restaurant_backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logging.NewLogger(cfg.ServiceName, cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	seed := migrations.Seed{ManagerEmail: cfg.SeedManagerEmail, ManagerPassword: cfg.SeedManagerPassword}
	if err := migrations.RunMigrations(ctx, db, seed, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Redis is optional: without it the menu is not cached and payment
	// callbacks rely on idempotent application only.
	var (
		menuCache   services.MenuCache
		guard       services.CallbackGuard
		cachePinger handlers.Pinger
	)
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		menuCache, guard, cachePinger = redisClient, redisClient, redisClient
	}

	publisher := events.Publisher(events.NoopPublisher{})
	if cfg.AMQPURL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Fatal("failed to connect to AMQP broker", zap.Error(err))
		}
	}
	defer publisher.Close()

	var images services.ImageStore
	if cfg.StorageURL != "" {
		images = storage.NewClient(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	}

	gateway := payment.NewGateway(
		payment.NewMoMoClient(payment.MoMoConfig{
			PartnerCode: cfg.MoMoPartnerCode,
			AccessKey:   cfg.MoMoAccessKey,
			SecretKey:   cfg.MoMoSecretKey,
			Endpoint:    cfg.MoMoEndpoint,
			ReturnURL:   cfg.MoMoReturnURL,
			IPNURL:      cfg.MoMoIPNURL,
		}),
		payment.NewVietcombankClient(payment.VietcombankConfig{
			MerchantID: cfg.VCBMerchantID,
			APIKey:     cfg.VCBAPIKey,
			Endpoint:   cfg.VCBEndpoint,
			ReturnURL:  cfg.VCBReturnURL,
			CancelURL:  cfg.VCBCancelURL,
		}),
	)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	detailRepo := repository.NewOrderDetailRepository(db)
	jobRepo := repository.NewScheduledJobRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	stockRepo := repository.NewStockRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	// Initialize services
	orderService := services.NewOrderService(saleRepo, detailRepo, customerRepo, recipeRepo, publisher, cfg.AutoCompleteDelay)
	customerService := services.NewCustomerService(customerRepo, tokens)
	staffService := services.NewStaffService(staffRepo, scheduleRepo, tokens)
	scheduleService := services.NewScheduleService(scheduleRepo)
	recipeService := services.NewRecipeService(recipeRepo, menuCache, images, cfg.MenuCacheTTL)
	inventoryService := services.NewInventoryService(ingredientRepo, stockRepo, supplierRepo, menuCache)
	salesService := services.NewSalesService(saleRepo)
	paymentService := services.NewPaymentService(gateway, orderService, guard)
	jobService := services.NewJobService(jobRepo, orderService, services.JobSettings{
		Interval:    cfg.JobSweepInterval,
		BatchSize:   cfg.JobBatchSize,
		MaxAttempts: cfg.JobMaxAttempts,
	}, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:       logger,
		Tokens:       tokens,
		CORSOrigin:   cfg.CORSOrigin,
		ExposeErrors: !cfg.IsProduction(),
		Health:       handlers.NewHealthHandler(database.Pinger{DB: db}, cachePinger),
		Customers:    handlers.NewCustomerHandler(customerService, orderService),
		Orders:       handlers.NewOrderHandler(orderService, salesService),
		Payments:     handlers.NewPaymentHandler(paymentService),
		Staff:        handlers.NewStaffHandler(staffService),
		Schedules:    handlers.NewScheduleHandler(scheduleService),
		Recipes:      handlers.NewRecipeHandler(recipeService),
		Inventory:    handlers.NewInventoryHandler(inventoryService),
		Sales:        handlers.NewSalesHandler(salesService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return jobService.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
