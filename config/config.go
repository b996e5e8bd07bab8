package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/adscraper/pkg/errors"
)

const (
	// SessionBackendMemory keeps session slots in process memory
	SessionBackendMemory = "memory"
	// SessionBackendMemcache keeps session slots in memcached
	SessionBackendMemcache = "memcache"
)

// DefaultUserAgent is the browser identification sent with every page request
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config represents the application configuration
type Config struct {
	// HTTP shell
	HTTPAddr           string
	CORSAllowedOrigins []string

	// Scraping
	TargetURL      string
	MaxPages       int
	RequestTimeout time.Duration
	PageDelay      time.Duration
	UserAgent      string

	// Session storage
	SessionBackend string
	MemcacheAddr   string
	SessionTTL     time.Duration

	// Redis run publisher; disabled when RedisAddr is empty
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES", "5"))
	timeout, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "30"))
	delay, _ := strconv.Atoi(getEnv("PAGE_DELAY_SECONDS", "2"))
	sessionTTL, _ := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "60"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))

	return &Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		TargetURL:            getEnv("TARGET_URL", "https://sn.coinafrique.com/categorie/vetements-homme"),
		MaxPages:             maxPages,
		RequestTimeout:       time.Duration(timeout) * time.Second,
		PageDelay:            time.Duration(delay) * time.Second,
		UserAgent:            getEnv("USER_AGENT", DefaultUserAgent),
		SessionBackend:       strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		SessionTTL:           time.Duration(sessionTTL) * time.Minute,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "scrape_runs"),
		RedisStreamMaxLength: streamMaxLength,
		Environment:          getEnv("SCRAPER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the scraper cannot run with
func (c *Config) Validate() error {
	if c.MaxPages < 1 {
		return errors.NewConfiguration("MAX_PAGES must be at least 1", nil)
	}
	if c.RequestTimeout <= 0 {
		return errors.NewConfiguration("REQUEST_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.PageDelay < 0 {
		return errors.NewConfiguration("PAGE_DELAY_SECONDS must not be negative", nil)
	}
	if c.SessionTTL <= 0 {
		return errors.NewConfiguration("SESSION_TTL_MINUTES must be positive", nil)
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendMemcache:
		if c.MemcacheAddr == "" {
			return errors.NewConfiguration("MEMCACHE_ADDR is required for the memcache session backend", nil)
		}
	default:
		return errors.NewConfiguration("unknown SESSION_BACKEND "+strconv.Quote(c.SessionBackend), nil)
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
