package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	awspkg "github.com/lumora-candles/backend/pkg/aws"
)

// Config holds the order-service environment.
type Config struct {
	Port             string
	Env              string
	MongoURL         string
	MongoDB          string
	JWTSecret        string
	KafkaBrokers     []string
	KafkaTopic       string
	StrictValidation bool
}

// LoadConfig reads env vars with defaults. When AWS_USE_SECRETS=true the
// Mongo URI and JWT secret are fetched from Secrets Manager, falling back to
// env vars on failure.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8083"),
		Env:              getEnv("APP_ENV", "development"),
		MongoURL:         getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "lumora"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		KafkaTopic:       getEnv("ORDER_EVENTS_TOPIC", "order.created"),
		StrictValidation: os.Getenv("ORDER_STRICT_VALIDATION") == "true",
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			if uri, err := sm.GetSecret(context.Background(), "order/MONGO_URL"); err == nil && uri != "" {
				cfg.MongoURL = uri
			}
			if jwt, err := sm.GetSecret(context.Background(), "order/JWT_SECRET"); err == nil && jwt != "" {
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
