package main

import (
	"context"
	"fmt"
	"os"

	awspkg "github.com/lumora-candles/backend/pkg/aws"
	"github.com/lumora-candles/backend/services/catalog-service/services"
)

// Config holds the catalog-service environment.
type Config struct {
	Port      string
	Env       string
	Backend   string
	MongoURL  string
	MongoDB   string
	DDBTable  string
	RedisURL  string
	JWTSecret string
	S3        services.S3Config
}

// LoadConfig reads env vars with defaults. When AWS_USE_SECRETS=true the
// Mongo URI and JWT secret are fetched from Secrets Manager, falling back to
// env vars on failure.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8082"),
		Env:       getEnv("APP_ENV", "development"),
		Backend:   getEnv("CATALOG_BACKEND", "mongodb"),
		MongoURL:  getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "lumora"),
		DDBTable:  getEnv("DDB_TABLE_PRODUCTS", "lumora-products"),
		RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		S3: services.S3Config{
			Bucket:    os.Getenv("AWS_S3_BUCKET"),
			Prefix:    getEnv("AWS_S3_PREFIX", "products"),
			Region:    getEnv("AWS_REGION", "us-east-1"),
			Endpoint:  os.Getenv("AWS_S3_ENDPOINT"),
			CDNDomain: os.Getenv("CLOUDFRONT_DOMAIN"),
		},
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			if uri, err := sm.GetSecret(context.Background(), "catalog/MONGO_URL"); err == nil && uri != "" {
				cfg.MongoURL = uri
			}
			if jwt, err := sm.GetSecret(context.Background(), "catalog/JWT_SECRET"); err == nil && jwt != "" {
				cfg.JWTSecret = jwt
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
