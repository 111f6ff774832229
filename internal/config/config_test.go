package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "mock")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.GameTTL)
	assert.Equal(t, 5, cfg.SummaryInterval)
	assert.Equal(t, "gemini-2.5-flash", cfg.SummaryModelName)
	assert.Equal(t, "Phàm Nhân", cfg.DefaultRealmSystem[0])
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEYS", "k1, ,k2")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("SUMMARY_INTERVAL", "3")
	t.Setenv("DEFAULT_REALM_SYSTEM", "Phàm Nhân, Luyện Khí")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, cfg.GeminiAPIKeys)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 3, cfg.SummaryInterval)
	assert.Equal(t, []string{"Phàm Nhân", "Luyện Khí"}, cfg.DefaultRealmSystem)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "gemini without keys", cfg: Config{LLMProvider: "gemini", SummaryInterval: 5, DefaultRealmSystem: []string{"a"}}, wantErr: "GEMINI_API_KEYS"},
		{name: "unknown provider", cfg: Config{LLMProvider: "venice", SummaryInterval: 5, DefaultRealmSystem: []string{"a"}}, wantErr: "unsupported LLM_PROVIDER"},
		{name: "bad interval", cfg: Config{LLMProvider: "mock", DefaultRealmSystem: []string{"a"}}, wantErr: "SUMMARY_INTERVAL"},
		{name: "no realms", cfg: Config{LLMProvider: "mock", SummaryInterval: 1}, wantErr: "DEFAULT_REALM_SYSTEM"},
		{name: "valid", cfg: Config{LLMProvider: "MOCK", SummaryInterval: 1, DefaultRealmSystem: []string{"a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
