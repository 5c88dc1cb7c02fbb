package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// reads a corpus file; .yaml and .yml are parsed as YAML, anything else as JSON
func ReadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return decodeCorpus(path, data)
}

// writes a corpus atomically in the format its extension names
func WriteFile(path string, corpus *Corpus) error {
	return writeCache(path, corpus)
}

// reads every corpus fragment in dir, in file name order
func ReadDir(dir string) ([]*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".json" || isYAML(e.Name()) {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)

	corpora := make([]*Corpus, 0, len(names))
	for _, name := range names {
		c, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		corpora = append(corpora, c)
	}

	return corpora, nil
}

// concatenates fragments in order. The version is the last non-empty one.
func Merge(corpora ...*Corpus) *Corpus {
	merged := &Corpus{}

	for _, c := range corpora {
		if c == nil {
			continue
		}

		if c.Version != "" {
			merged.Version = c.Version
		}

		merged.Atoms = append(merged.Atoms, c.Atoms...)
		merged.Recipes = append(merged.Recipes, c.Recipes...)
		merged.Gotchas = append(merged.Gotchas, c.Gotchas...)
	}

	return merged
}

// reports entries that could never be retrieved or rendered
func (c *Corpus) Validate() error {
	var problems []string

	for i, a := range c.Atoms {
		if strings.TrimSpace(a.Class) == "" {
			problems = append(problems, fmt.Sprintf("atom %d: class is required", i))
		}
	}

	for i, r := range c.Recipes {
		if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Code) == "" {
			problems = append(problems, fmt.Sprintf("recipe %d: title and code are required", i))
		}
	}

	for i, g := range c.Gotchas {
		if strings.TrimSpace(g.Title) == "" {
			problems = append(problems, fmt.Sprintf("gotcha %d: title is required", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid corpus: %s", strings.Join(problems, "; "))
	}

	return nil
}
