package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Browser  BrowserConfig
	Snapshot SnapshotConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	MaxRetries   int
	RetryDelay   time.Duration
	RateLimitMin time.Duration
	RateLimitMax time.Duration
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	UserAgent      string
	SettleDelay    time.Duration
}

type SnapshotConfig struct {
	OutputDir string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			MaxRetries:   getIntOrDefault("SCRAPER_MAX_RETRIES", 3),
			RetryDelay:   getDurationOrDefault("SCRAPER_RETRY_DELAY", 5*time.Second),
			RateLimitMin: getDurationOrDefault("SCRAPER_RATE_LIMIT_MIN", 2*time.Second),
			RateLimitMax: getDurationOrDefault("SCRAPER_RATE_LIMIT_MAX", 10*time.Second),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "en-US"),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", defaultUserAgent),
			SettleDelay:    getDurationOrDefault("SCRAPER_SETTLE_DELAY", 2*time.Second),
		},
		Snapshot: SnapshotConfig{
			OutputDir: getEnvOrDefault("SNAPSHOT_OUTPUT_DIR", "data/scrapes"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.MaxRetries < 1 {
		return fmt.Errorf("SCRAPER_MAX_RETRIES must be at least 1")
	}

	if c.Scraper.RateLimitMin > c.Scraper.RateLimitMax {
		return fmt.Errorf("SCRAPER_RATE_LIMIT_MIN cannot be greater than SCRAPER_RATE_LIMIT_MAX")
	}

	if c.Snapshot.OutputDir == "" {
		return fmt.Errorf("SNAPSHOT_OUTPUT_DIR must not be empty")
	}

	if c.Browser.ViewportWidth < 1 || c.Browser.ViewportHeight < 1 {
		return fmt.Errorf("browser viewport dimensions must be positive")
	}

	return nil
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
