package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	// Persistence
	StoreBackend string
	DBUrl        string
	RedisAddr    string
	RedisDB      int
	CartTTL      time.Duration
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Campaign & Pricing
	FreeDeliveryThreshold int64
	DeliveryFee           int64
	CampaignActive        bool
	CampaignCode          string
	// Checkout
	OrderPrefix     string
	ProcessingDelay time.Duration
	// Business Rules
	MaxCartQuantity int
	// Rate Limiting
	RateLimitPerSecond float64
	RateLimitBurst     int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		// We don't error here because in pure docker/prod envs, .env might not exist,
		// and we rely on system env vars.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		StoreBackend: getEnv("STORE_BACKEND", StoreMemory),
		DBUrl:        getEnv("DB_DSN", ""),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getIntEnv("REDIS_DB", 0),
		// Abandoned carts expire after a week by default
		CartTTL: getDurationEnv("CART_TTL", 7*24*time.Hour),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// Campaign defaults mirror the storefront promotion
		FreeDeliveryThreshold: getInt64Env("FREE_DELIVERY_THRESHOLD", 500),
		DeliveryFee:           getInt64Env("DELIVERY_FEE", 50),
		CampaignActive:        getBoolEnv("CAMPAIGN_ACTIVE", true),
		CampaignCode:          getEnv("CAMPAIGN_CODE", "FRESHBAKE24"),

		OrderPrefix:     getEnv("ORDER_PREFIX", "BAKERY"),
		ProcessingDelay: getDurationEnv("PROCESSING_DELAY", 2*time.Second),

		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 1000),

		RateLimitPerSecond: getFloatEnv("RATE_LIMIT_PER_SECOND", 50),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 100),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.StoreBackend != StoreMemory && c.StoreBackend != StoreRedis && c.StoreBackend != StorePostgres {
		log.Fatalf("CRITICAL: STORE_BACKEND must be one of %s, %s, %s", StoreMemory, StoreRedis, StorePostgres)
	}
	if c.StoreBackend == StorePostgres && c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN is required when STORE_BACKEND=postgres")
	}
	if c.FreeDeliveryThreshold < 0 {
		log.Fatal("CRITICAL: FREE_DELIVERY_THRESHOLD must not be negative")
	}
	if c.DeliveryFee < 0 {
		log.Fatal("CRITICAL: DELIVERY_FEE must not be negative")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Invalid int64 for %s, using fallback", key)
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Invalid bool for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}
