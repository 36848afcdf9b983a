// Package config loads the process configuration from environment variables.
// Every knob has a working default so a bare `folioagent serve` comes up with
// the mock model, the in-memory session backend and the embedded catalog.
package config

import (
	"os"
	"strconv"
	"time"
)

// Provider selects the model backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderMock      Provider = "mock"
)

// Config is the full process configuration.
type Config struct {
	Port string

	Provider        Provider
	OpenAIKey       string
	OpenAIModel     string
	AnthropicKey    string
	AnthropicModel  string

	// Session backend selection, evaluated in priority order:
	// REST cache (both URL and token), direct Redis, process memory.
	RestURL       string
	RestToken     string
	RedisAddr     string
	SessionWindow int
	SessionTTL    time.Duration

	OperatorName  string
	OperatorEmail string
	SMTPAddr      string
	SMTPUser      string
	SMTPPass      string

	CatalogPath     string
	DefaultTimezone string

	LogLevel  string
	LogFormat string // "text" or "json"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Load reads all env vars and builds the config.
func Load() *Config {
	var provider Provider
	switch getEnv("MODEL_PROVIDER", "") {
	case "openai":
		provider = ProviderOpenAI
	case "anthropic":
		provider = ProviderAnthropic
	case "mock":
		provider = ProviderMock
	default:
		// Infer from available credentials.
		switch {
		case os.Getenv("OPENAI_API_KEY") != "":
			provider = ProviderOpenAI
		case os.Getenv("ANTHROPIC_API_KEY") != "":
			provider = ProviderAnthropic
		default:
			provider = ProviderMock
		}
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		Provider:       provider,
		OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),

		RestURL:       getEnv("UPSTASH_REDIS_REST_URL", ""),
		RestToken:     getEnv("UPSTASH_REDIS_REST_TOKEN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		SessionWindow: getIntEnv("SESSION_WINDOW", 10),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),

		OperatorName:  getEnv("OPERATOR_NAME", "Studio Operator"),
		OperatorEmail: getEnv("OPERATOR_EMAIL", "operator@foliolabs.studio"),
		SMTPAddr:      getEnv("SMTP_ADDR", ""),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),

		CatalogPath:     getEnv("CATALOG_PATH", ""),
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}
