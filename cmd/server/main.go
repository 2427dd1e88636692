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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shareloop/service-booking/internal/application"
	"github.com/shareloop/service-booking/internal/config"
	"github.com/shareloop/service-booking/internal/domain/booking"
	"github.com/shareloop/service-booking/internal/domain/item"
	"github.com/shareloop/service-booking/internal/domain/user"
	"github.com/shareloop/service-booking/internal/events"
	"github.com/shareloop/service-booking/internal/handler"
	"github.com/shareloop/service-booking/internal/health"
	"github.com/shareloop/service-booking/internal/middleware"
	"github.com/shareloop/service-booking/internal/platform/database"
	"github.com/shareloop/service-booking/internal/platform/logger"
	"github.com/shareloop/service-booking/internal/repository"
	"github.com/shareloop/service-booking/internal/repository/inmemory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "service-booking", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.StorageDriver),
	)

	// Wire the booking store and the directories per the configured driver.
	var (
		db          *gorm.DB
		bookingRepo booking.Repository
		users       user.Directory
		items       item.Directory
	)
	if cfg.StorageDriver == config.StoragePostgres {
		db, err = database.Connect(cfg.DB, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}

		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(
				&repository.UserModel{},
				&repository.ItemModel{},
				&repository.BookingModel{},
			); err != nil {
				log.Fatal("failed to run auto-migration", zap.Error(err))
			}
			log.Info("database migration completed (dev auto-migrate)")
		} else {
			if err := database.RunMigrations(cfg.DB.URL(), "migrations", log); err != nil {
				log.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		bookingRepo = repository.NewGormBookingRepository(db)
		users = repository.NewGormUserDirectory(db)
		items = repository.NewGormItemDirectory(db)
	} else {
		bookingRepo = inmemory.NewBookingStore()
		users = inmemory.NewUserDirectory()
		items = inmemory.NewItemDirectory()
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = cache.Close() }()
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	bookingService := application.NewBookingService(bookingRepo, users, items, publisher, cache, log)
	availabilityService := application.NewAvailabilityService(bookingRepo, cache, log)
	itemService := application.NewItemService(items, availabilityService, log)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))

	health.NewHandler(db, "service-booking").RegisterRoutes(router)

	api := &router.RouterGroup
	handler.NewBookingHandler(bookingService).RegisterRoutes(api)
	handler.NewItemHandler(itemService).RegisterRoutes(api)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
