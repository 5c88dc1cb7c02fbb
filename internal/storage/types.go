package storage

import (
	"errors"
	"time"
)

// returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// a saved script in the user's library
type Script struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Prompt    string    `json:"prompt"`
	Code      string    `json:"code"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// summary of a finished run
type RunRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id,omitempty"`
	Prompt     string    `json:"prompt"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model,omitempty"`
	Success    bool      `json:"success"`
	Attempts   int       `json:"attempts"`
	FinalCode  string    `json:"final_code,omitempty"`
	FinalError string    `json:"final_error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// well-known setting keys
const (
	SettingDefaultProvider = "default_provider"
	SettingDefaultModel    = "default_model"
	SettingAnthropicKey    = "anthropic_api_key"
	SettingOpenAIKey       = "openai_api_key"
	SettingGeminiKey       = "gemini_api_key"
	SettingMaxRetries      = "max_retries"
)
