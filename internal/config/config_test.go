package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"ENVIRONMENT", "PORT", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"DEFAULT_PROVIDER", "DEFAULT_MODEL", "MAX_RETRIES", "HISTORY_TURNS",
		"HOST_BRIDGE_URL", "HOST_BRIDGE_TIMEOUT", "KNOWLEDGE_CACHE_PATH",
		"KNOWLEDGE_SOURCE_URL", "DATA_DIR", "ALLOWED_ORIGINS",
	} {
		t.Setenv(name, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "anthropic", cfg.DefaultProvider)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 6, cfg.HistoryTurns)
	assert.Equal(t, defaultHostBridgeURL, cfg.HostBridgeURL)
	assert.Equal(t, 30*time.Second, cfg.HostBridgeTimeout)
	assert.Equal(t, "./data/knowledge.json", cfg.KnowledgeCachePath)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_PROVIDER", "Gemini")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("HOST_BRIDGE_URL", "http://localhost:9000/")
	t.Setenv("HOST_BRIDGE_TIMEOUT", "2m")
	t.Setenv("ALLOWED_ORIGINS", "file://, http://localhost:3000 ,")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.DefaultProvider)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, "http://localhost:9000", cfg.HostBridgeURL)
	assert.Equal(t, 2*time.Minute, cfg.HostBridgeTimeout)
	assert.Equal(t, []string{"file://", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "g-key", cfg.APIKeyFor("gemini"))
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_RETRIES", "three")

	_, err := fromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_RETRIES")
}
