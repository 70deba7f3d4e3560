package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Language model configuration
	LLMProvider      string
	LLMAPIKey        string
	LLMAPIURL        string
	LLMModel         string
	LLMTemperature   float64
	LLMMaxTokens     int
	GollmProvider    string
	AssistantLimit   int
	AssistantWindow  time.Duration
	RestaurantRegion string

	// External search tools
	SpoonacularAPIKey string
	SpoonacularURL    string
	GoogleAPIKey      string
	GoogleCX          string
	GoogleSearchURL   string

	// Object storage
	S3Bucket  string
	AWSRegion string
}

const (
	DefaultLLMURL       = "https://api.groq.com/openai/v1/chat/completions"
	DefaultLLMModel     = "llama-3.1-70b-versatile"
	DefaultSpoonacular  = "https://api.spoonacular.com"
	DefaultGoogleSearch = "https://www.googleapis.com/customsearch/v1"
)

// LoadConfig creates a new Config instance from an optional .env file,
// environment variables and Docker secrets.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] could not load .env file: %v", err)
	}

	cfg := &Config{
		Environment:       GetEnvironment(),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		ServerHost:        getEnv("SERVER_HOST", "0.0.0.0"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getSecret("DB_USER", "db_user", "postgres"),
		DBPassword:        getSecret("DB_PASSWORD", "db_password", ""),
		DBName:            getEnv("DB_NAME", "nutriplan"),
		DBSSLMode:         getEnv("DB_SSL_MODE", "disable"),
		SQLitePath:        getEnv("SQLITE_PATH", "nutriplan.db"),
		RedisURL:          getSecret("REDIS_URL", "redis_url", ""),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getSecret("REDIS_PASSWORD", "redis_password", ""),
		RedisDB:           getInt("REDIS_DB", 0),
		JWTSecret:         getSecret("JWT_SECRET", "jwt_secret", ""),
		LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", "groq")),
		LLMAPIKey:         getSecret("GROQ_API_KEY", "groq_api_key", ""),
		LLMAPIURL:         getEnv("LLM_API_URL", DefaultLLMURL),
		LLMModel:          getEnv("LLM_MODEL", DefaultLLMModel),
		LLMTemperature:    getFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:      getInt("LLM_MAX_TOKENS", 1000),
		GollmProvider:     getEnv("GOLLM_PROVIDER", "groq"),
		AssistantLimit:    getInt("ASSISTANT_RATE_LIMIT", 30),
		AssistantWindow:   getDuration("ASSISTANT_RATE_WINDOW", time.Hour),
		RestaurantRegion:  getEnv("RESTAURANT_REGION", "Singapore"),
		SpoonacularAPIKey: getSecret("SPOONACULAR_API_KEY", "spoonacular_api_key", ""),
		SpoonacularURL:    getEnv("SPOONACULAR_API_URL", DefaultSpoonacular),
		GoogleAPIKey:      getSecret("GOOGLE_API_KEY", "google_api_key", ""),
		GoogleCX:          getEnv("GOOGLE_CSE_ID", ""),
		GoogleSearchURL:   getEnv("GOOGLE_SEARCH_URL", DefaultGoogleSearch),
		S3Bucket:          getEnv("S3_BUCKET_NAME", ""),
		AWSRegion:         getEnv("AWS_REGION", "ap-southeast-1"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RedisAddr returns host:port for the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// PostgresDSN builds the connection string for the Postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getSecret prefers the environment variable, then the Docker secret file.
func getSecret(envKey, secretName, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[Config] ignoring invalid integer %s=%q", key, v)
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[Config] ignoring invalid number %s=%q", key, v)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[Config] ignoring invalid duration %s=%q", key, v)
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
