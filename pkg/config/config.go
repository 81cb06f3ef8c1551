package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	Twitter   TwitterConfig
	Reddit    RedditConfig
	Alpaca    AlpacaConfig
	Finnhub   FinnhubConfig
	Inference InferenceConfig

	// Monitoring loop
	Monitor MonitorConfig

	// Strategy file (weights, thresholds, risk limits)
	StrategyPath string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// TwitterConfig holds X API v2 configuration
type TwitterConfig struct {
	BearerToken string
	BaseURL     string
}

// RedditConfig holds the Reddit public JSON API configuration.
// Free fallback source when the X API quota is exhausted.
type RedditConfig struct {
	BaseURL   string
	UserAgent string
	Enabled   bool
}

// AlpacaConfig holds Alpaca brokerage API configuration
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
	StreamURL string
	Paper     bool // paper trading account
}

// FinnhubConfig holds Finnhub market data configuration
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
}

// InferenceConfig holds the sentiment model inference service configuration
type InferenceConfig struct {
	BaseURL string
	Timeout time.Duration // per-request timeout
}

// MonitorConfig holds the post monitoring loop configuration
type MonitorConfig struct {
	Accounts        []string // monitored author handles
	PollInterval    time.Duration
	PostsPerAccount int
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "tradex"),
			User:            getEnv("DB_USER", "tradex"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External APIs
		Twitter: TwitterConfig{
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			BaseURL:     getEnv("TWITTER_BASE_URL", "https://api.twitter.com/2"),
		},

		Reddit: RedditConfig{
			BaseURL:   getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
			UserAgent: getEnv("REDDIT_USER_AGENT", "tradex/1.0"),
			Enabled:   getEnvAsBool("REDDIT_ENABLED", true),
		},

		Alpaca: AlpacaConfig{
			APIKey:    getEnv("ALPACA_API_KEY", ""),
			APISecret: getEnv("ALPACA_API_SECRET", ""),
			BaseURL:   getEnv("ALPACA_BASE_URL", "https://paper-api.alpaca.markets"),
			StreamURL: getEnv("ALPACA_STREAM_URL", "wss://paper-api.alpaca.markets/stream"),
			Paper:     getEnvAsBool("ALPACA_PAPER", true),
		},

		Finnhub: FinnhubConfig{
			APIKey:  getEnv("FINNHUB_API_KEY", ""),
			BaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		},

		Inference: InferenceConfig{
			BaseURL: getEnv("INFERENCE_BASE_URL", "http://localhost:8501"),
			Timeout: getEnvAsDuration("INFERENCE_TIMEOUT", "5s"),
		},

		// Monitoring loop
		Monitor: MonitorConfig{
			Accounts:        getEnvAsSlice("MONITORED_ACCOUNTS", []string{"elonmusk", "Tesla"}),
			PollInterval:    getEnvAsDuration("POLL_INTERVAL", "6h"),
			PostsPerAccount: getEnvAsInt("POSTS_PER_ACCOUNT", 5),
		},

		StrategyPath: getEnv("STRATEGY_PATH", "config/strategy/sentiment_v1.yaml"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Monitor.Accounts) == 0 {
		return fmt.Errorf("MONITORED_ACCOUNTS must not be empty")
	}

	if c.Monitor.PostsPerAccount < 1 || c.Monitor.PostsPerAccount > 100 {
		return fmt.Errorf("POSTS_PER_ACCOUNT must be between 1 and 100")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	if len(values) == 0 {
		return defaultValue
	}

	return values
}
