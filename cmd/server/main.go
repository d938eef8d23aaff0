package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/config"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/handlers"
	"github.com/staffrevenue/revenue-manager/internal/metrics"
	"github.com/staffrevenue/revenue-manager/internal/middleware"
	"github.com/staffrevenue/revenue-manager/internal/services"
	"github.com/staffrevenue/revenue-manager/internal/utils"
	"github.com/staffrevenue/revenue-manager/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Staff Revenue Manager")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Open the store and apply migrations
	logger.WithField("path", cfg.Database.Path).Info("Opening database...")
	store, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()
	logger.Info("Database ready")

	var ledgerMetrics *metrics.LedgerMetrics
	if cfg.Server.MetricsEnabled {
		ledgerMetrics = metrics.NewLedgerMetrics(prometheus.DefaultRegisterer)
	}

	// Initialize services
	logger.Info("Initializing services...")
	staffService := services.NewStaffService(store, logger)
	entryService := services.NewEntryService(store, ledgerMetrics, logger)
	payrollService := services.NewPayrollService(store, logger)
	settingsService := services.NewSettingsService(store, logger)
	incomeService := services.NewIncomeService(store, logger)
	expenseService := services.NewExpenseService(store, logger)
	giftCardService, err := services.NewGiftCardService(store, ledgerMetrics, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize gift card service: %v", err)
	}

	// Unlock tokens for the payroll and expenses sections
	var unlockService *jwt.Service
	guards := handlers.Guards{Store: middleware.RequireStore(store)}
	if cfg.Security.UnlockRequired {
		unlockService = jwt.NewService(cfg.Security.UnlockTokenSecret, cfg.Security.UnlockTokenTTL)
		guards.Payroll = middleware.RequireUnlock(unlockService, jwt.PayrollScope, logger)
		guards.Expenses = middleware.RequireUnlock(unlockService, jwt.ExpensesScope, logger)
		logger.WithField("ttl", cfg.Security.UnlockTokenTTL.String()).Info("Unlock tokens required for payroll and expenses")
	} else {
		logger.Warn("UNLOCK_REQUIRED is false: payroll and expenses routes are open")
	}

	// Throttle failed password and PIN checks
	var rateLimitService *services.RateLimitService
	if cfg.Security.MaxUnlockAttempts > 0 {
		rateLimitService = services.NewRateLimitService(store, services.RateLimitConfig{
			MaxFailedAttempts: cfg.Security.MaxUnlockAttempts,
			Window:            cfg.Security.UnlockAttemptWindow,
		}, logger)
	}

	// Initialize and start cron service
	cronService := services.NewCronService(incomeService, rateLimitService, logger)
	if err := cronService.Start(cfg.Jobs); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger, ledgerMetrics))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  cfg.CORS.AllowedMethods,
		AllowHeaders:  cfg.CORS.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	if cfg.Server.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	handlers.RegisterRoutes(router, handlers.Handlers{
		Staff:     handlers.NewStaffHandler(staffService, logger),
		Entries:   handlers.NewEntryHandler(entryService, logger),
		Payroll:   handlers.NewPayrollHandler(payrollService, settingsService, unlockService, rateLimitService, logger),
		Income:    handlers.NewIncomeHandler(incomeService, settingsService, logger),
		Expenses:  handlers.NewExpenseHandler(expenseService, settingsService, unlockService, rateLimitService, logger),
		GiftCards: handlers.NewGiftCardHandler(giftCardService, logger),
		System:    handlers.NewSystemHandler(store, cfg.Server.Port, version),
	}, guards)

	if cfg.Server.StaticDir != "" {
		router.NoRoute(staticUI(cfg.Server.StaticDir))
		logger.WithField("dir", cfg.Server.StaticDir).Info("Serving web UI")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		info := utils.GetNetworkInfo(cfg.Server.Port)
		logger.WithFields(logrus.Fields{
			"port":   cfg.Server.Port,
			"lan_ip": info.LocalIP,
		}).Infof("Server starting, open http://%s:%s on the local network", info.LocalIP, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// staticUI serves the single-page web UI from dir. Unknown paths outside /api
// fall back to index.html so client-side routes survive a reload.
func staticUI(dir string) gin.HandlerFunc {
	root := http.Dir(dir)
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, handlers.ErrorResponse{
				Error:   "not_found",
				Message: "Route not found",
			})
			return
		}

		if f, err := root.Open(path); err == nil {
			stat, statErr := f.Stat()
			f.Close()
			if statErr == nil && !stat.IsDir() {
				c.File(filepath.Join(dir, filepath.FromSlash(path)))
				return
			}
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
