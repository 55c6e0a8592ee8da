package main

import (
	"os"
	"strconv"
	"time"
)

// Config holds the cart-service environment.
type Config struct {
	Port            string
	Env             string
	RedisURL        string
	CartTTL         time.Duration
	OrderServiceURL string
}

// LoadConfig reads env vars with defaults. Carts expire after CART_TTL_HOURS
// without activity.
func LoadConfig() *Config {
	ttlHours := 168
	if raw := os.Getenv("CART_TTL_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ttlHours = parsed
		}
	}

	return &Config{
		Port:            getEnv("PORT", "8086"),
		Env:             getEnv("APP_ENV", "development"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:         time.Duration(ttlHours) * time.Hour,
		OrderServiceURL: getEnv("ORDER_SERVICE_URL", "http://localhost:8083"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
