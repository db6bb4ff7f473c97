package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL          string
	DBLogLevel           string
	RedisURL             string
	JWTSecret            string
	OCRSpaceAPIKey       string
	OCRSpaceURL          string
	ServerHost           string
	ServerPort           string
	SessionTimeout       int
	CacheTTL             int
	HistoryCapacity      int
	DefaultRatePerKg     float64
	LogLevel             string
	LogPretty            bool
	DefaultAdminPassword string
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		DatabaseURL:          getEnv("DATABASE_URL", "sqlite://logistics.db"),
		DBLogLevel:           getEnv("DB_LOG_LEVEL", "warn"),
		RedisURL:             getEnv("REDIS_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", "change_me_in_production"),
		OCRSpaceAPIKey:       loadOCRSpaceKey(getEnv("OCRSPACE_KEY_FILE", "ocrspace_config.txt")),
		OCRSpaceURL:          getEnv("OCRSPACE_URL", "https://api.ocr.space/parse/image"),
		ServerHost:           getEnv("SERVER_HOST", "127.0.0.1"),
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		SessionTimeout:       getEnvAsInt("SESSION_TIMEOUT", 28800),
		CacheTTL:             getEnvAsInt("CACHE_TTL", 86400),
		HistoryCapacity:      getEnvAsInt("HISTORY_CAPACITY", 50),
		DefaultRatePerKg:     getEnvAsFloat("DEFAULT_RATE_PER_KG", 10000),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnvAsBool("LOG_PRETTY", false),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
	}
}

// loadOCRSpaceKey prefers OCRSPACE_API_KEY and falls back to the key file.
func loadOCRSpaceKey(path string) string {
	if key := strings.TrimSpace(os.Getenv("OCRSPACE_API_KEY")); key != "" {
		return key
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
