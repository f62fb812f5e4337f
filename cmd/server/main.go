package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-journal/internal/journal/config"
	delivery "trading-journal/internal/journal/delivery/http"
	"trading-journal/internal/journal/repository"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/postgres"
	"trading-journal/pkg/redis"
	"trading-journal/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the trading journal service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Trading Journal Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	tradeRepo := repository.NewTradeRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	vaultStateRepo := repository.NewVaultStateRepository(db.DB)
	driveRepo := repository.NewDriveRepository(cfg, appLogger)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
	}
	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier = telegram.NoopNotifier{}
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	pollInterval := 30 * time.Second
	if cfg.Vault.PollInterval != "" {
		pollInterval, err = time.ParseDuration(cfg.Vault.PollInterval)
		if err != nil {
			appLogger.Fatal("Invalid vault poll interval", logger.ErrorField(err))
		}
	}

	analyticsSvc := service.NewAnalyticsService(tradeRepo, appLogger)
	tradeSvc := service.NewTradeService(tradeRepo, analyticsSvc, appLogger)
	userSvc := service.NewUserService(userRepo, redisClient.Client, notifier, cfg, appLogger)
	reviewSvc := service.NewReviewService(tradeRepo, aiRepo, analyticsSvc, appLogger)
	exportSvc := service.NewExportService(tradeRepo, userRepo, appLogger)
	vaultSvc := service.NewVaultService(tradeRepo, userRepo, vaultStateRepo, driveRepo, redisClient.Client, notifier, pollInterval, appLogger)

	// Start the vault status monitor
	if err := vaultSvc.StartMonitor(ctx); err != nil {
		appLogger.Fatal("Failed to start vault monitor", logger.ErrorField(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	auth := delivery.NewAuthMiddleware(userSvc)
	apiV1 := e.Group("/api/v1")

	userHandler := delivery.NewUserHandler(userSvc, appLogger)
	userHandler.RegisterPublicRoutes(apiV1.Group("/auth"))

	authed := apiV1.Group("", auth.RequireUser)
	userHandler.RegisterRoutes(authed.Group("/auth"))

	tradeHandler := delivery.NewTradeHandler(tradeSvc, appLogger)
	tradeHandler.RegisterRoutes(authed.Group("/trades"))

	analyticsHandler := delivery.NewAnalyticsHandler(analyticsSvc, appLogger)
	analyticsHandler.RegisterRoutes(authed.Group("/analytics"))

	reviewHandler := delivery.NewReviewHandler(reviewSvc, appLogger)
	reviewHandler.RegisterRoutes(authed.Group("/reviews"))

	exportHandler := delivery.NewExportHandler(exportSvc, appLogger)
	exportHandler.RegisterRoutes(authed.Group("/export"))

	syncHandler := delivery.NewSyncHandler(vaultSvc, appLogger)
	syncHandler.RegisterRoutes(authed.Group("/sync"))

	adminGroup := authed.Group("/admin", auth.RequireAdmin)
	syncHandler.RegisterVaultRoutes(adminGroup)
	adminHandler := delivery.NewAdminHandler(userSvc, tradeSvc, exportSvc, appLogger)
	adminHandler.RegisterRoutes(adminGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "journal-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing journal-service CLI: %s\n", err)
		os.Exit(1)
	}
}
