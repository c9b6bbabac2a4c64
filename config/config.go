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

	Headless            bool
	NavigationTimeoutMs int
	SettleDelayMs       int
	ScrollCount         int
	ScrollDelayMs       int
	MaxItems            int

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	CSVOutputPath   string
	CrawlerConfPath string
	ChromeBin       string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "readytogo"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "readytogo123"),
		PostgresDB:       getEnv("POSTGRES_DB", "travel_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		Headless:            getEnvBool("HEADLESS", true),
		NavigationTimeoutMs: getEnvInt("NAVIGATION_TIMEOUT_MS", 30000),
		SettleDelayMs:       getEnvInt("SETTLE_DELAY_MS", 5000),
		ScrollCount:         getEnvInt("SCROLL_COUNT", 3),
		ScrollDelayMs:       getEnvInt("SCROLL_DELAY_MS", 1500),
		MaxItems:            getEnvInt("MAX_ITEMS", 10),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 2),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 3000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		CSVOutputPath:   getEnv("CSV_OUTPUT_PATH", "./output/raw_flights.csv"),
		CrawlerConfPath: getEnv("CRAWLER_CONFIG_PATH", ""),
		ChromeBin:       getEnv("CHROME_BIN", ""),
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
