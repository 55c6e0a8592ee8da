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
	"github.com/lumora-candles/backend/services/common/logger"
	"github.com/lumora-candles/backend/services/common/middleware"
	"github.com/lumora-candles/backend/services/order-service/controllers"
	"github.com/lumora-candles/backend/services/order-service/database"
	"github.com/lumora-candles/backend/services/order-service/kafka"
	"github.com/lumora-candles/backend/services/order-service/repository"
	"github.com/lumora-candles/backend/services/order-service/routes"
	"github.com/lumora-candles/backend/services/order-service/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	cwLogs, err := awspkg.NewCloudWatchLogsClient(context.Background(), "order-service")
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

	if err := database.ConnectWithConfig(cfg.MongoURL, cfg.MongoDB); err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	orderRepo := repository.NewMongoOrderRepository(database.DB)

	var producer kafka.ProducerAPI
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	orderService := services.NewOrderService(orderRepo, producer, cfg.StrictValidation)
	orderController := controllers.NewOrderController(orderService)

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
	r.Use(middleware.Metrics(metricsClient, "order-service"))
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterOrderRoutes(r, orderController, cfg.JWTSecret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Order Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Order Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("Failed to close Kafka producer", zap.Error(err))
		}
	}
	if err := database.Close(); err != nil {
		log.Error("Failed to disconnect MongoDB", zap.Error(err))
	}

	log.Info("Order Service stopped gracefully")
}
