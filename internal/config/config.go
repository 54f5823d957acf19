// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Token data providers selectable in live mode.
const (
	ProviderHelius = "helius"
	ProviderRPC    = "rpc"
)

// LLM providers selectable in live mode.
const (
	LLMOpenRouter = "openrouter"
	LLMGemini     = "gemini"
)

// DefaultRPCEndpoint is the public mainnet-beta endpoint.
const DefaultRPCEndpoint = "https://api.mainnet-beta.solana.com"

// Config holds all application configuration.
type Config struct {
	TelegramBotToken string
	Environment      string
	UseMockServices  bool
	LogLevel         string

	LLMTimeout      time.Duration // API_TIMEOUT_SECONDS
	ProviderTimeout time.Duration // PROVIDER_TIMEOUT_SECONDS

	HeliusAPIKey      string
	SolanaRPCEndpoint string
	TokenProviders    []string

	LLMProvider      string
	OpenRouterAPIKey string
	GeminiAPIKey     string
	LLMModel         string // empty selects the provider default

	RiskThresholdsFile string
	PostgresDSN        string // memory history store when empty
	HTTPAddr           string

	UserRateLimitPerMinute int
}

// Load reads configuration from the environment.
// A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Environment:      strings.ToLower(getEnv("ENVIRONMENT", EnvDevelopment)),
		UseMockServices:  getEnvBool("USE_MOCK_SERVICES", true),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),

		LLMTimeout:      getEnvDuration("API_TIMEOUT_SECONDS", 10*time.Second),
		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT_SECONDS", 5*time.Second),

		HeliusAPIKey:      os.Getenv("HELIUS_API_KEY"),
		SolanaRPCEndpoint: getEnv("SOLANA_RPC_ENDPOINT", DefaultRPCEndpoint),
		TokenProviders:    splitList(getEnv("TOKEN_PROVIDERS", ProviderHelius+","+ProviderRPC)),

		LLMProvider:      strings.ToLower(getEnv("LLM_PROVIDER", LLMOpenRouter)),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		LLMModel:         os.Getenv("LLM_MODEL"),

		RiskThresholdsFile: os.Getenv("RISK_THRESHOLDS_FILE"),
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":9090"),

		UserRateLimitPerMinute: getEnvInt("USER_RATE_LIMIT_PER_MINUTE", 10),
	}

	return cfg, nil
}

// IsDevelopment reports whether the development environment is selected.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// LLMAPIKey returns the API key for the selected LLM provider.
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case LLMGemini:
		return c.GeminiAPIKey
	default:
		return c.OpenRouterAPIKey
	}
}

// Validate checks the configuration for the analysis pipeline.
// The Telegram token is checked separately by ValidateBot.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		errs = append(errs, fmt.Errorf("ENVIRONMENT must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, errors.New("API_TIMEOUT_SECONDS must be positive"))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT_SECONDS must be positive"))
	}
	if c.UserRateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("USER_RATE_LIMIT_PER_MINUTE must be positive"))
	}

	if !c.UseMockServices {
		errs = append(errs, c.validateLive()...)
	}

	return errors.Join(errs...)
}

func (c *Config) validateLive() []error {
	var errs []error

	if len(c.TokenProviders) == 0 {
		errs = append(errs, errors.New("TOKEN_PROVIDERS must name at least one provider"))
	}
	for _, p := range c.TokenProviders {
		switch p {
		case ProviderHelius:
			if c.HeliusAPIKey == "" {
				errs = append(errs, errors.New("HELIUS_API_KEY is required for the helius provider"))
			}
		case ProviderRPC:
			if c.SolanaRPCEndpoint == "" {
				errs = append(errs, errors.New("SOLANA_RPC_ENDPOINT is required for the rpc provider"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown token provider %q", p))
		}
	}

	switch c.LLMProvider {
	case LLMOpenRouter, LLMGemini:
		if c.LLMAPIKey() == "" {
			errs = append(errs, fmt.Errorf("API key is required for llm provider %q", c.LLMProvider))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLMProvider))
	}

	return errs
}

// ValidateBot checks settings required by the Telegram bot.
func (c *Config) ValidateBot() error {
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer, using default")
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "yes", "y", "on":
			return true
		case "no", "n", "off":
			return false
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid boolean, using default")
	}
	return defaultValue
}

// getEnvDuration reads a whole number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return time.Duration(secs) * time.Second
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid seconds value, using default")
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
