package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openfleet/service-rental/internal/application"
	"github.com/openfleet/service-rental/internal/auth"
	"github.com/openfleet/service-rental/internal/config"
	"github.com/openfleet/service-rental/internal/database"
	"github.com/openfleet/service-rental/internal/domain/status"
	rentalEvents "github.com/openfleet/service-rental/internal/events"
	"github.com/openfleet/service-rental/internal/handler"
	"github.com/openfleet/service-rental/internal/logger"
	"github.com/openfleet/service-rental/internal/middleware"
	"github.com/openfleet/service-rental/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-rental",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.CarStatusTypeModel{},
			&repository.BookingStatusTypeModel{},
			&repository.CarModel{},
			&repository.BookingModel{},
			&repository.ReviewModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		if err := repository.SeedStatusTypes(db); err != nil {
			log.Fatal("failed to seed status types", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := cfg.DBConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Load the status catalog from its lookup tables
	statusRepo := repository.NewGormStatusRepository(db)
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	carTypes, err := statusRepo.CarStatusTypes(startupCtx)
	if err != nil {
		startupCancel()
		log.Fatal("failed to load car status types", zap.Error(err))
	}
	bookingTypes, err := statusRepo.BookingStatusTypes(startupCtx)
	startupCancel()
	if err != nil {
		log.Fatal("failed to load booking status types", zap.Error(err))
	}
	catalog, err := status.NewCatalog(carTypes, bookingTypes)
	if err != nil {
		log.Fatal("invalid status catalog", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := rentalEvents.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	carRepo := repository.NewGormCarRepository(db, catalog)
	bookingRepo := repository.NewGormBookingRepository(db, catalog)
	reviewRepo := repository.NewGormReviewRepository(db)
	transactor := repository.NewGormTransactor(db)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		carRepo,
		catalog,
		transactor,
		kafkaProducer,
		log,
		cfg.BookingDefaultStatusByDate,
	)
	carService := application.NewCarService(
		carRepo,
		bookingRepo,
		catalog,
		transactor,
		kafkaProducer,
		log,
		application.CarDeletePolicy(cfg.CarDeletePolicy),
	)
	reviewService := application.NewReviewService(reviewRepo, log)

	// Initialize and start maintenance event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "rental-service"
	maintenanceConsumer := rentalEvents.NewMaintenanceEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		carService,
		log,
	)
	defer func() { _ = maintenanceConsumer.Close() }()

	go func() {
		log.Info("starting maintenance event consumer")
		if err := maintenanceConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("maintenance event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	carHandler := handler.NewCarHandler(carService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	statusHandler := handler.NewStatusHandler(catalog)
	adminHandler := handler.NewAdminHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(db)
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	carHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	reviewHandler.RegisterRoutes(&router.RouterGroup)
	statusHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-rental...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-rental stopped")
}
