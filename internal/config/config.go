package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LLM providers
const (
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

type Config struct {
	Port        string     `env:"PORT" envDefault:"8080"`
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level `env:"-"`

	RedisURL string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	GameTTL  time.Duration `env:"GAME_TTL" envDefault:"24h"`

	LLMProvider      string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKeys    []string      `env:"GEMINI_API_KEYS" envSeparator:","`
	GeminiBaseURL    string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	ModelName        string        `env:"MODEL_NAME" envDefault:"gemini-2.5-flash"`
	SummaryModelName string        `env:"SUMMARY_MODEL_NAME"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	DefaultRealmSystem []string `env:"DEFAULT_REALM_SYSTEM" envSeparator:"," envDefault:"Phàm Nhân,Luyện Khí,Trúc Cơ,Kết Đan,Nguyên Anh,Hóa Thần"`
	SummaryInterval    int      `env:"SUMMARY_INTERVAL" envDefault:"5"`

	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	if cfg.SummaryModelName == "" {
		cfg.SummaryModelName = cfg.ModelName
	}
	cfg.GeminiAPIKeys = compact(cfg.GeminiAPIKeys)
	cfg.DefaultRealmSystem = compact(cfg.DefaultRealmSystem)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LLMProvider) {
	case ProviderGemini:
		if len(c.GeminiAPIKeys) == 0 {
			errs = append(errs, errors.New("GEMINI_API_KEYS is required when using the gemini provider"))
		}
	case ProviderMock:
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.SummaryInterval <= 0 {
		errs = append(errs, fmt.Errorf("SUMMARY_INTERVAL must be positive, got %d", c.SummaryInterval))
	}
	if len(c.DefaultRealmSystem) == 0 {
		errs = append(errs, errors.New("DEFAULT_REALM_SYSTEM cannot be empty"))
	}
	return errors.Join(errs...)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
