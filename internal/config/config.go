package config

import (
	"os"
	"strconv"
	"time"

	"task_api/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort    string
	AppVersion string

	MongoURL string
	MongoDB  string

	// Redis is optional; when unset the rate limiter is disabled (fail-open).
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	// API rate limits
	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads configuration from the environment (.env supported).
func Load() *Config {
	_ = godotenv.Load()

	mongoURL := os.Getenv("MONGO_URL")
	if mongoURL == "" {
		logger.Fatal("MONGO_URL is not set")
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	apiRateLimit := 120
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		AppVersion:    getEnv("APP_VERSION", "dev"),
		MongoURL:      mongoURL,
		MongoDB:       getEnv("MONGO_DB", "task_api"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_JSON") == "true",
		APIRateLimit:  apiRateLimit,
		APIRateWindow: apiRateWindow,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
