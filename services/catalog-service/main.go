package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	awspkg "github.com/lumora-candles/backend/pkg/aws"
	"github.com/lumora-candles/backend/services/catalog-service/controllers"
	"github.com/lumora-candles/backend/services/catalog-service/database"
	"github.com/lumora-candles/backend/services/catalog-service/repository"
	"github.com/lumora-candles/backend/services/catalog-service/routes"
	"github.com/lumora-candles/backend/services/catalog-service/services"
	"github.com/lumora-candles/backend/services/common/logger"
	"github.com/lumora-candles/backend/services/common/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	cwLogs, err := awspkg.NewCloudWatchLogsClient(context.Background(), "catalog-service")
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

	var productRepo repository.ProductRepo
	switch cfg.Backend {
	case "dynamodb":
		awsCfg, err := awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			log.Fatal("Failed to load AWS config", zap.Error(err))
		}
		productRepo = repository.NewDynamoProductRepo(dynamodb.NewFromConfig(awsCfg), cfg.DDBTable)
		log.Info("Catalog backend: DynamoDB", zap.String("table", cfg.DDBTable))
	default:
		if err := database.ConnectWithConfig(cfg.MongoURL, cfg.MongoDB); err != nil {
			log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		productRepo = repository.NewMongoProductRepo(database.DB)
	}

	var s3Client *s3.Client
	if cfg.S3.Bucket != "" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			s3Client = awspkg.NewS3Client(awsCfg, cfg.S3.Endpoint)
		} else {
			log.Warn("S3 unavailable, presigned uploads disabled", zap.Error(err))
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("Invalid REDIS_URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable, catalog cache will miss", zap.Error(err))
	}

	catalogService := services.NewCatalogService(productRepo, s3Client, cfg.S3)
	cacheManager := controllers.NewCacheManager(redisClient)
	productController := controllers.NewProductController(catalogService, cacheManager)

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
	r.Use(middleware.Metrics(metricsClient, "catalog-service"))
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterProductRoutes(r, productController, cfg.JWTSecret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Catalog Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Catalog Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis client", zap.Error(err))
	}
	if cfg.Backend != "dynamodb" {
		if err := database.Close(); err != nil {
			log.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}

	log.Info("Catalog Service stopped gracefully")
}
