package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort              = "8787"
	defaultProvider          = "anthropic"
	defaultMaxRetries        = 3
	defaultHistoryTurns      = 6
	defaultHostBridgeURL     = "http://127.0.0.1:8765"
	defaultHostBridgeTimeout = 30 * time.Second
	defaultDataDir           = "./data"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - the panel host may not ship a .env file
	}

	return fromEnv()
}

func fromEnv() (*Config, error) {
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	provider := strings.ToLower(os.Getenv("DEFAULT_PROVIDER"))
	if provider == "" {
		provider = defaultProvider
	}

	maxRetries, err := intEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, err
	}

	historyTurns, err := intEnv("HISTORY_TURNS", defaultHistoryTurns)
	if err != nil {
		return nil, err
	}

	bridgeTimeout := defaultHostBridgeTimeout
	if v := os.Getenv("HOST_BRIDGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("HOST_BRIDGE_TIMEOUT must be a duration: %w", err)
		}
		bridgeTimeout = d
	}

	bridgeURL := os.Getenv("HOST_BRIDGE_URL")
	if bridgeURL == "" {
		bridgeURL = defaultHostBridgeURL
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = defaultDataDir
	}

	cachePath := os.Getenv("KNOWLEDGE_CACHE_PATH")
	if cachePath == "" {
		cachePath = dataDir + "/knowledge.json"
	}

	return &Config{
		Environment:        environment,
		Port:               port,
		AnthropicKey:       os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		GeminiKey:          os.Getenv("GEMINI_API_KEY"),
		DefaultProvider:    provider,
		DefaultModel:       os.Getenv("DEFAULT_MODEL"),
		MaxRetries:         maxRetries,
		HistoryTurns:       historyTurns,
		HostBridgeURL:      strings.TrimRight(bridgeURL, "/"),
		HostBridgeTimeout:  bridgeTimeout,
		KnowledgeCachePath: cachePath,
		KnowledgeSourceURL: os.Getenv("KNOWLEDGE_SOURCE_URL"),
		DataDir:            dataDir,
		AllowedOrigins:     splitList(os.Getenv("ALLOWED_ORIGINS")),
	}, nil
}

// returns the configured API key for a provider name
func (c *Config) APIKeyFor(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return c.OpenAIKey
	case "gemini":
		return c.GeminiKey
	default:
		return c.AnthropicKey
	}
}

func intEnv(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}

	return n, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}

	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
