package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Scraper   ScraperConfig
	RateLimit RateLimitConfig
	Client    ClientConfig
	Log       LogConfig
}

// ServerConfig controls the optional HTTP API served next to the MCP tool.
type ServerConfig struct {
	// HTTPEnabled toggles the JSON API. The MCP stdio tool is always served.
	HTTPEnabled bool // default: false

	Host string // default: "127.0.0.1"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// ScraperConfig controls how search pages are fetched and scraped.
type ScraperConfig struct {
	// SearchURL is the search page template; "{query}" is replaced by the
	// percent-encoded product name.
	SearchURL string // default: "https://www.amazon.com/s?k={query}"

	// BaseURL is the origin relative product links are resolved against.
	BaseURL string // default: "https://www.amazon.com"

	// UserAgent is sent with every search request.
	UserAgent string

	// RequestTimeout bounds a single search page fetch.
	RequestTimeout time.Duration // default: 10s

	// SelectorsFile optionally points at a YAML file replacing the built-in
	// selector rules.
	SelectorsFile string
}

// RateLimitConfig controls per-client rate limiting of the HTTP API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client IP.
	Burst int // default: 10
}

// ClientConfig controls how the opener reaches the search server.
type ClientConfig struct {
	// ServerCommand is the executable speaking MCP over stdio.
	ServerCommand string // default: "amazon-search"

	// ServerArgs are passed to ServerCommand.
	ServerArgs []string

	// MaxConcurrent caps in-flight tool calls. 0 means unbounded, 1 serializes.
	MaxConcurrent int // default: 0

	// Log reads the same variables as the server's LogConfig but defaults to
	// quiet text output, since the opener shares the terminal with the prompt.
	Log LogConfig // default: "warn", "text"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent mimics a desktop Chrome browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPEnabled: envBoolOr("PRODUCTFINDER_HTTP_ENABLED", false),
			Host:        envOr("PRODUCTFINDER_HOST", "127.0.0.1"),
			Port:        envIntOr("PRODUCTFINDER_PORT", 8080),
			Mode:        envOr("PRODUCTFINDER_MODE", "release"),
		},
		Scraper: ScraperConfig{
			SearchURL:      envOr("PRODUCTFINDER_SEARCH_URL", "https://www.amazon.com/s?k={query}"),
			BaseURL:        envOr("PRODUCTFINDER_BASE_URL", "https://www.amazon.com"),
			UserAgent:      envOr("PRODUCTFINDER_USER_AGENT", DefaultUserAgent),
			RequestTimeout: envDurationOr("PRODUCTFINDER_REQUEST_TIMEOUT", 10*time.Second),
			SelectorsFile:  os.Getenv("PRODUCTFINDER_SELECTORS_FILE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PRODUCTFINDER_RATE_RPS", 5.0),
			Burst:             envIntOr("PRODUCTFINDER_RATE_BURST", 10),
		},
		Client: ClientConfig{
			ServerCommand: envOr("PRODUCTFINDER_SERVER_CMD", "amazon-search"),
			ServerArgs:    envSliceOr("PRODUCTFINDER_SERVER_ARGS", nil),
			MaxConcurrent: envIntOr("PRODUCTFINDER_MAX_CONCURRENT", 0),
			Log: LogConfig{
				Level:  envOr("PRODUCTFINDER_LOG_LEVEL", "warn"),
				Format: envOr("PRODUCTFINDER_LOG_FORMAT", "text"),
			},
		},
		Log: LogConfig{
			Level:  envOr("PRODUCTFINDER_LOG_LEVEL", "info"),
			Format: envOr("PRODUCTFINDER_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
