package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	authadapters "farmstand/internal/auth/adapters"
	authapp "farmstand/internal/auth/application"
	authhttp "farmstand/internal/auth/infrastructure"
	catalogadapters "farmstand/internal/catalog/adapters"
	catalogapp "farmstand/internal/catalog/application"
	cataloghttp "farmstand/internal/catalog/infrastructure"
	ordersadapters "farmstand/internal/orders/adapters"
	ordersapp "farmstand/internal/orders/application"
	ordershttp "farmstand/internal/orders/infrastructure"
	ordersports "farmstand/internal/orders/ports"
	reportingadapters "farmstand/internal/reporting/adapters"
	reportingapp "farmstand/internal/reporting/application"
	reportinghttp "farmstand/internal/reporting/infrastructure"
	"farmstand/pkg/config"
	"farmstand/pkg/db"
	"farmstand/pkg/events"
	"farmstand/pkg/logger"
	"farmstand/pkg/middleware"
	"farmstand/pkg/rabbitmq"
	"farmstand/pkg/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	log.Info("starting " + cfg.ServiceName)

	// Connect to database
	dbConn, err := db.NewConnection(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Timeout:  cfg.DBTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	log.Info("connected to database")

	// Initialize repositories and run migrations
	productRepo := catalogadapters.NewPostgresProductRepository(dbConn)
	if err := productRepo.Migrate(); err != nil {
		log.Fatal("failed to migrate products: " + err.Error())
	}

	orderRepo := ordersadapters.NewPostgresOrderRepository(dbConn)
	if err := orderRepo.Migrate(); err != nil {
		log.Fatal("failed to migrate orders: " + err.Error())
	}

	userRepo := authadapters.NewPostgresUserRepository(dbConn)
	if err := userRepo.Migrate(); err != nil {
		log.Fatal("failed to migrate users: " + err.Error())
	}

	reportRepo := reportingadapters.NewPostgresReportRepository(dbConn)

	// Connect to RabbitMQ
	var publisher ordersports.EventPublisher
	rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Warn("failed to connect to RabbitMQ, events will be disabled: " + err.Error())
	} else {
		defer rabbitConn.Close()

		pub, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeOrders, log)
		if err != nil {
			log.Warn("failed to create publisher: " + err.Error())
		} else {
			publisher = ordersadapters.NewRabbitMQPublisher(pub, log)
		}
	}

	// Initialize token manager
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize use cases
	productUseCase := catalogapp.NewProductUseCase(productRepo, log, cfg.LowStockThreshold)
	orderUseCase := ordersapp.NewOrderUseCase(
		orderRepo,
		ordersadapters.NewCatalogAdapter(productRepo),
		publisher,
		log,
	)
	authUseCase := authapp.NewAuthUseCase(userRepo, tokens, log)
	reportUseCase := reportingapp.NewReportUseCase(reportRepo, log, cfg.LowStockThreshold)

	// Initialize HTTP handlers
	productHandler := cataloghttp.NewHTTPHandler(productUseCase)
	orderHandler := ordershttp.NewHTTPHandler(orderUseCase)
	authHandler := authhttp.NewHTTPHandler(authUseCase)
	reportHandler := reportinghttp.NewHTTPHandler(reportUseCase)

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	api := router.Group("/api/v1")

	authed := api.Group("")
	authed.Use(middleware.Auth(tokens))

	admin := api.Group("")
	admin.Use(middleware.Auth(tokens))
	admin.Use(middleware.RequireRole("admin"))

	productHandler.RegisterRoutes(api, admin)
	orderHandler.RegisterRoutes(api, admin)
	authHandler.RegisterRoutes(api, authed, admin)
	reportHandler.RegisterRoutes(admin)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		log.Info("HTTP server listening on :" + cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}

	log.Info("server stopped")
}
