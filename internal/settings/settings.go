// Package settings resolves which provider, model, key and retry budget a
// request runs with. Request values win over stored settings, which win
// over environment configuration.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/2b3pro/ae-conjure/internal/config"
	"github.com/2b3pro/ae-conjure/internal/engine"
	apperrors "github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/logger"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// Store is the persisted side of settings.
type Store interface {
	Settings(ctx context.Context) (map[string]string, error)
	SetSettings(ctx context.Context, values map[string]string) error
}

// per-request choices; empty fields fall through to stored settings
type Overrides struct {
	Provider string
	Model    string
	APIKey   string
}

// the provider configuration a request will use
type Selection struct {
	Provider llm.Provider
	Model    string
	APIKey   string
}

// editable settings; nil fields are left unchanged and "" clears a value
type Update struct {
	DefaultProvider *string `json:"default_provider,omitempty"`
	DefaultModel    *string `json:"default_model,omitempty"`
	MaxRetries      *int    `json:"max_retries,omitempty"`
	AnthropicKey    *string `json:"anthropic_api_key,omitempty"`
	OpenAIKey       *string `json:"openai_api_key,omitempty"`
	GeminiKey       *string `json:"gemini_api_key,omitempty"`
}

// effective settings as shown to clients, with keys masked
type View struct {
	DefaultProvider string            `json:"default_provider"`
	DefaultModel    string            `json:"default_model"`
	MaxRetries      int               `json:"max_retries"`
	APIKeys         map[string]string `json:"api_keys"`
	Providers       []llm.Provider    `json:"providers"`
}

// upper bound on a run's attempt budget, for requests and stored settings alike
const MaxRetriesLimit = 10

var keySettings = map[llm.Provider]string{
	llm.ProviderAnthropic: storage.SettingAnthropicKey,
	llm.ProviderOpenAI:    storage.SettingOpenAIKey,
	llm.ProviderGemini:    storage.SettingGeminiKey,
}

type Resolver struct {
	store Store
	cfg   *config.Config
}

// store may be nil, in which case only configuration is consulted
func NewResolver(store Store, cfg *config.Config) *Resolver {
	return &Resolver{store: store, cfg: cfg}
}

func (r *Resolver) stored(ctx context.Context) map[string]string {
	if r.store == nil {
		return map[string]string{}
	}

	values, err := r.store.Settings(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to read stored settings, using configuration", "error", err)
		return map[string]string{}
	}

	return values
}

// picks provider, model and key for a request
func (r *Resolver) Resolve(ctx context.Context, o Overrides) (Selection, error) {
	stored := r.stored(ctx)

	name := firstNonEmpty(o.Provider, stored[storage.SettingDefaultProvider], r.cfg.DefaultProvider)
	provider, err := llm.ParseProvider(name)
	if err != nil {
		return Selection{}, err
	}

	// a stored default model belongs to the default provider
	model := o.Model
	if model == "" && o.Provider == "" {
		model = firstNonEmpty(stored[storage.SettingDefaultModel], r.cfg.DefaultModel)
	}

	return Selection{
		Provider: provider,
		Model:    model,
		APIKey:   firstNonEmpty(o.APIKey, stored[keySettings[provider]], r.cfg.APIKeyFor(string(provider))),
	}, nil
}

// returns the attempt budget for a request, never above MaxRetriesLimit
func (r *Resolver) MaxRetries(ctx context.Context, requested *int) int {
	return min(r.maxRetries(ctx, requested), MaxRetriesLimit)
}

func (r *Resolver) maxRetries(ctx context.Context, requested *int) int {
	if requested != nil {
		return *requested
	}

	if v := r.stored(ctx)[storage.SettingMaxRetries]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	if r.cfg.MaxRetries > 0 {
		return r.cfg.MaxRetries
	}

	return engine.DefaultMaxRetries
}

// returns the effective settings with API keys masked
func (r *Resolver) View(ctx context.Context) (View, error) {
	sel, err := r.Resolve(ctx, Overrides{})
	if err != nil {
		return View{}, err
	}

	stored := r.stored(ctx)
	keys := make(map[string]string, len(llm.Providers))
	for _, p := range llm.Providers {
		keys[string(p)] = MaskKey(firstNonEmpty(stored[keySettings[p]], r.cfg.APIKeyFor(string(p))))
	}

	return View{
		DefaultProvider: string(sel.Provider),
		DefaultModel:    firstNonEmpty(sel.Model, llm.DefaultModel(sel.Provider)),
		MaxRetries:      r.MaxRetries(ctx, nil),
		APIKeys:         keys,
		Providers:       llm.Providers,
	}, nil
}

// validates and persists an update
func (r *Resolver) Apply(ctx context.Context, u Update) error {
	if r.store == nil {
		return apperrors.Config("apply settings", "settings storage is not configured")
	}

	values := map[string]string{}

	if u.DefaultProvider != nil {
		v := strings.TrimSpace(*u.DefaultProvider)
		if v != "" {
			p, err := llm.ParseProvider(v)
			if err != nil {
				return err
			}
			v = string(p)
		}
		values[storage.SettingDefaultProvider] = v
	}

	if u.DefaultModel != nil {
		values[storage.SettingDefaultModel] = strings.TrimSpace(*u.DefaultModel)
	}

	if u.MaxRetries != nil {
		if *u.MaxRetries < 1 || *u.MaxRetries > MaxRetriesLimit {
			return apperrors.Config("apply settings", "max_retries must be between 1 and %d", MaxRetriesLimit)
		}
		values[storage.SettingMaxRetries] = strconv.Itoa(*u.MaxRetries)
	}

	for key, v := range map[string]*string{
		storage.SettingAnthropicKey: u.AnthropicKey,
		storage.SettingOpenAIKey:    u.OpenAIKey,
		storage.SettingGeminiKey:    u.GeminiKey,
	} {
		if v != nil {
			values[key] = strings.TrimSpace(*v)
		}
	}

	if len(values) == 0 {
		return nil
	}

	if err := r.store.SetSettings(ctx, values); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// hides all but the last four characters of a key
func MaskKey(key string) string {
	if key == "" {
		return ""
	}

	if len(key) <= 8 {
		return "****"
	}

	return "****" + key[len(key)-4:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
