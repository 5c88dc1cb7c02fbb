package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2b3pro/ae-conjure/internal/logger"
)

// upper bound on a fetched corpus document
const maxCorpusBytes = 16 << 20

// shared HTTP client for corpus fetches
var corpusHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Loader reads the corpus from a local cache file and falls back to fetching
// it from SourceURL, refreshing the cache on a successful fetch.
type Loader struct {
	CachePath  string
	SourceURL  string
	HTTPClient *http.Client
}

// returns the cached corpus, fetching it when the cache is missing or unreadable
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	if l.CachePath != "" {
		data, err := os.ReadFile(l.CachePath)
		if err == nil {
			corpus, err := decodeCorpus(l.CachePath, data)
			if err == nil {
				return corpus, nil
			}

			logger.Warn("knowledge cache unreadable, fetching source",
				"path", l.CachePath,
				"error", err,
			)
		} else if !os.IsNotExist(err) {
			logger.Warn("failed to read knowledge cache", "path", l.CachePath, "error", err)
		}
	}

	if l.SourceURL == "" {
		return nil, fmt.Errorf("knowledge corpus not cached at %q and no source URL configured", l.CachePath)
	}

	return l.Fetch(ctx)
}

// fetches the corpus from SourceURL and rewrites the cache
func (l *Loader) Fetch(ctx context.Context) (*Corpus, error) {
	if l.SourceURL == "" {
		return nil, fmt.Errorf("no knowledge source URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := l.HTTPClient
	if client == nil {
		client = corpusHTTPClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch knowledge corpus: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("knowledge source returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCorpusBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge corpus: %w", err)
	}

	corpus, err := decodeCorpus(sourceName(l.SourceURL), data)
	if err != nil {
		return nil, err
	}

	if l.CachePath != "" {
		if err := writeCache(l.CachePath, corpus); err != nil {
			// the fetched corpus is still usable without a cache
			logger.Warn("failed to write knowledge cache", "path", l.CachePath, "error", err)
		}
	}

	return corpus, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// the path component of a URL, used to pick a decoder
func sourceName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	return path.Base(u.Path)
}

func decodeCorpus(name string, data []byte) (*Corpus, error) {
	var corpus Corpus

	if isYAML(name) {
		if err := yaml.Unmarshal(data, &corpus); err != nil {
			return nil, fmt.Errorf("failed to parse knowledge corpus yaml: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &corpus); err != nil {
			return nil, fmt.Errorf("failed to parse knowledge corpus json: %w", err)
		}
	}

	return &corpus, nil
}

func writeCache(cachePath string, corpus *Corpus) error {
	var (
		data []byte
		err  error
	)

	if isYAML(cachePath) {
		data, err = yaml.Marshal(corpus)
	} else {
		data, err = json.MarshalIndent(corpus, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("failed to encode knowledge cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}

	return os.Rename(tmp, cachePath)
}
