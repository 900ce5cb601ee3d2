package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresEnabled  bool

	ReferenceCurrency   string
	SimilarityThreshold float64
	MinProfitMargin     float64
	ExactMatchFirst     bool

	ExchangeRateAPIKey string
	RateCachePath      string
	RateTimeoutSec     int
	MaxRetries         int

	MaxConcurrency int
	RateLimitMs    int

	FeedPath   string
	ResultsDir string
	LogDir     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "arbitrage_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),

		ReferenceCurrency:   getEnv("REFERENCE_CURRENCY", "ZAR"),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.7),
		MinProfitMargin:     getEnvFloat("MIN_PROFIT_MARGIN", 10),
		ExactMatchFirst:     getEnvBool("EXACT_MATCH_FIRST", false),

		ExchangeRateAPIKey: getEnv("EXCHANGE_RATE_API_KEY", ""),
		RateCachePath:      getEnv("RATE_CACHE_PATH", "./data/exchange_rates.json"),
		RateTimeoutSec:     getEnvInt("RATE_TIMEOUT_SECONDS", 10),
		MaxRetries:         getEnvInt("MAX_RETRIES", 3),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),

		FeedPath:   getEnv("FEED_PATH", "./data/listings.json"),
		ResultsDir: getEnv("RESULTS_DIR", "./results"),
		LogDir:     getEnv("LOG_DIR", "./logs"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
