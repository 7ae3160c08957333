package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"xpom-logistics/internal/api"
	"xpom-logistics/internal/cache"
	"xpom-logistics/internal/cache/rediscache"
	"xpom-logistics/internal/config"
	"xpom-logistics/internal/modules/drivers"
	"xpom-logistics/internal/modules/orders"
	"xpom-logistics/internal/modules/reports"
	"xpom-logistics/internal/modules/users"
	"xpom-logistics/pkg/email"
	"xpom-logistics/pkg/notify"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// 4. --- External Collaborators ---
	// Telegram notifier is a no-op when the token is unset.
	notifier := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)

	var trackingCache cache.BytesCache
	if cfg.RedisAddr != "" {
		trackingCache = rediscache.New(cfg.RedisAddr)
	}

	var emailSender email.ServiceInterface
	var templates *email.TemplateManager
	if cfg.EmailEnabled {
		emailSender, err = email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			log.Fatalf("Failed to initialize email sender: %v", err)
		}
		templates, err = email.NewTemplateManager()
		if err != nil {
			log.Fatalf("Failed to parse email templates: %v", err)
		}
	}

	// 5. --- Dependency Injection (Wiring everything up) ---
	driverRepo := drivers.NewRepository(dbPool)
	driverService := drivers.NewService(driverRepo)
	driverHandler := drivers.NewHandler(driverService)

	orderRepo := orders.NewRepository(dbPool)
	orderService := orders.NewService(
		orderRepo,
		driverService,
		notifier,
		emailSender,
		templates,
		trackingCache,
		time.Duration(cfg.TrackingCacheTTLSecs)*time.Second,
		cfg.ClientOrigin,
	)
	orderHandler := orders.NewHandler(orderService)

	userRepo := users.NewRepository(dbPool)
	userService := users.NewService(userRepo, orderRepo, cfg.JWTSecret)
	userHandler := users.NewHandler(userService)

	reportRepo := reports.NewRepository(dbPool)
	reportService := reports.NewService(reportRepo)
	reportHandler := reports.NewHandler(reportService)

	// 6. --- Initialize Router ---
	api.SetupRoutes(e, userHandler, orderHandler, driverHandler, reportHandler, cfg.JWTSecret)

	// 7. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
