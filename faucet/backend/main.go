package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/veil-protocol/veil/faucet/pkg/api"
	"github.com/veil-protocol/veil/faucet/pkg/config"
	"github.com/veil-protocol/veil/faucet/pkg/database"
	"github.com/veil-protocol/veil/faucet/pkg/faucet"
	"github.com/veil-protocol/veil/faucet/pkg/metrics"
	"github.com/veil-protocol/veil/faucet/pkg/monitor"
	"github.com/veil-protocol/veil/faucet/pkg/ratelimit"
)

func init() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Warn("Invalid log level, defaulting to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func main() {
	log.Info("Starting Veil Testnet Faucet...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.WithFields(log.Fields{
		"port":               cfg.Port,
		"chain_id":           cfg.ChainID,
		"amount_per_request": cfg.AmountPerRequest,
	}).Info("Configuration loaded")

	metrics.Initialize("1.0.0", "testnet", cfg.ChainID, cfg.Denom, cfg.AmountPerRequest)

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	rateLimiter := ratelimit.NewRateLimiter(redisClient, cfg.RateLimitConfig())

	faucetService, err := faucet.NewService(cfg, db)
	if err != nil {
		log.Fatalf("Failed to initialize faucet service: %v", err)
	}

	balance, err := faucetService.GetBalance()
	if err != nil {
		log.Warnf("Failed to get faucet balance: %v", err)
	} else {
		metrics.UpdateBalance(balance)
		log.WithField("balance", balance).Info("Faucet initialized")
	}

	monitorCtx, monitorCancel := context.WithCancel(context.Background())
	defer monitorCancel()
	balanceMonitor := monitor.NewBalanceMonitor(cfg, faucetService)
	go balanceMonitor.Start(monitorCtx)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	apiHandler := api.NewHandler(cfg, faucetService, rateLimiter, db)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", apiHandler.Health)

		faucetGroup := v1.Group("/faucet")
		{
			faucetGroup.GET("/info", apiHandler.GetFaucetInfo)
			faucetGroup.GET("/recent", apiHandler.GetRecentTransactions)
			faucetGroup.GET("/challenge", apiHandler.GetPowChallenge)
			faucetGroup.POST("/request", apiHandler.RequestTokens)
			faucetGroup.GET("/stats", apiHandler.GetStatistics)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Not found",
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.WithFields(log.Fields{
			"status":     statusCode,
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency":    latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}).Info("HTTP request")
	}
}
