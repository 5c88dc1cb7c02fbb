package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2b3pro/ae-conjure/internal/config"
	"github.com/2b3pro/ae-conjure/internal/knowledge"
	"github.com/2b3pro/ae-conjure/internal/logger"
)

const fetchTimeout = 2 * time.Minute

func Fetch(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	loader := &knowledge.Loader{
		CachePath: cfg.KnowledgeCachePath,
		SourceURL: cfg.KnowledgeSourceURL,
	}

	corpus, err := loader.Fetch(ctx)
	if err != nil {
		return err
	}

	logger.Info("fetched knowledge corpus",
		"version", corpus.Version,
		"atoms", len(corpus.Atoms),
		"recipes", len(corpus.Recipes),
		"gotchas", len(corpus.Gotchas),
		"cache", cfg.KnowledgeCachePath,
	)

	return nil
}

// merges every fragment under flags.Path into flags.Out
func Build(flags config.BuildFlags) error {
	if flags.Out == "" {
		return fmt.Errorf("no output path: pass --out or set KNOWLEDGE_CACHE_PATH")
	}

	logger.Info("reading corpus fragments", "path", flags.Path)

	fragments, err := knowledge.ReadDir(flags.Path)
	if err != nil {
		return err
	}

	if len(fragments) == 0 {
		return fmt.Errorf("no corpus fragments found in %s", flags.Path)
	}

	corpus := knowledge.Merge(fragments...)
	if flags.Version != "" {
		corpus.Version = flags.Version
	}

	if err := corpus.Validate(); err != nil {
		return err
	}

	if err := knowledge.WriteFile(flags.Out, corpus); err != nil {
		return err
	}

	logger.Info("wrote knowledge corpus",
		"out", flags.Out,
		"fragments", len(fragments),
		"version", corpus.Version,
		"atoms", len(corpus.Atoms),
		"recipes", len(corpus.Recipes),
		"gotchas", len(corpus.Gotchas),
	)

	return nil
}

func Stats(cfg *config.Config, w io.Writer) error {
	corpus, err := knowledge.ReadFile(cfg.KnowledgeCachePath)
	if err != nil {
		return err
	}

	idx := knowledge.Build(corpus)

	fmt.Fprintf(w, "version:  %s\n", corpus.Version)      //nolint:errcheck
	fmt.Fprintf(w, "atoms:    %d\n", len(corpus.Atoms))   //nolint:errcheck
	fmt.Fprintf(w, "recipes:  %d\n", len(corpus.Recipes)) //nolint:errcheck
	fmt.Fprintf(w, "gotchas:  %d\n", len(corpus.Gotchas)) //nolint:errcheck
	fmt.Fprintf(w, "keywords: %d\n", idx.Size())          //nolint:errcheck

	return nil
}

func Search(cfg *config.Config, flags config.SearchFlags, w io.Writer) error {
	query := strings.Join(flags.Args, " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search needs a query")
	}

	corpus, err := knowledge.ReadFile(cfg.KnowledgeCachePath)
	if err != nil {
		return err
	}

	idx := knowledge.Build(corpus)

	if flags.Digest {
		fmt.Fprintln(w, idx.Retrieve(query, knowledge.Options{})) //nolint:errcheck
		return nil
	}

	for _, m := range idx.Search(query, knowledge.Options{}) {
		fmt.Fprintf(w, "%-6s #%-4d score=%d\n", m.Ref.Type, m.Ref.Index, m.Score) //nolint:errcheck
	}

	return nil
}
