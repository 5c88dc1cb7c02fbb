package config

import "time"

type Config struct {
	Environment string
	Port        string

	// provider API keys; requests may override with their own key
	AnthropicKey string
	OpenAIKey    string
	GeminiKey    string

	DefaultProvider string
	DefaultModel    string

	MaxRetries   int
	HistoryTurns int

	HostBridgeURL     string
	HostBridgeTimeout time.Duration

	KnowledgeCachePath string
	KnowledgeSourceURL string

	DataDir        string
	AllowedOrigins []string
}

// flags for the ingester build subcommand
type BuildFlags struct {
	Path    string
	Out     string
	Version string
}

// flags for the ingester search subcommand
type SearchFlags struct {
	Digest bool
	Args   []string
}
