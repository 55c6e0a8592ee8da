package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/lumora-candles/backend/pkg/aws"
	"github.com/lumora-candles/backend/services/cart-service/clients"
	"github.com/lumora-candles/backend/services/cart-service/controllers"
	"github.com/lumora-candles/backend/services/cart-service/database"
	"github.com/lumora-candles/backend/services/cart-service/routes"
	"github.com/lumora-candles/backend/services/cart-service/store"
	"github.com/lumora-candles/backend/services/common/logger"
	"github.com/lumora-candles/backend/services/common/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := LoadConfig()

	cwLogs, err := awspkg.NewCloudWatchLogsClient(context.Background(), "cart-service")
	if err != nil {
		cwLogs = nil
	}
	var log *zap.Logger
	if cwLogs != nil && cwLogs.IsEnabled() {
		log = logger.InitializeWithWriter(cfg.Env, cwLogs)
	} else {
		log = logger.Initialize(cfg.Env)
	}
	defer log.Sync()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	cartRepo := database.NewCartRepository(redisClient, cfg.CartTTL)
	cartStore := store.NewCartStore(cartRepo)
	orderClient := clients.NewOrderClient(cfg.OrderServiceURL)
	cartController := controllers.NewCartController(cartStore, orderClient, cartRepo)

	metricsClient, err := awspkg.NewMetricsClient(context.Background())
	if err != nil {
		log.Warn("CloudWatch metrics unavailable", zap.Error(err))
		metricsClient = nil
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())
	r.Use(middleware.Metrics(metricsClient, "cart-service"))

	routes.RegisterCartRoutes(r, cartController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Cart Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Cart Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis client", zap.Error(err))
	}

	log.Info("Cart Service stopped gracefully")
}
