package main

import (
	"fmt"
	"os"

	"github.com/2b3pro/ae-conjure/internal/config"
	"github.com/2b3pro/ae-conjure/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ingester <command> [options]")
		fmt.Println("Commands:")
		fmt.Println("  fetch     - download the corpus from KNOWLEDGE_SOURCE_URL into the cache")
		fmt.Println("  build     - merge local corpus fragments into the cache file")
		fmt.Println("  stats     - print counts for the cached corpus")
		fmt.Println("  search    - run a retrieval against the cached corpus")
		fmt.Println("\nOptions:")
		fmt.Println("  --path <dir>      - fragment directory (build)")
		fmt.Println("  --out <file>      - output file (build, defaults to KNOWLEDGE_CACHE_PATH)")
		fmt.Println("  --version <v>     - version to stamp (build)")
		fmt.Println("  --digest          - print the prompt digest (search)")
		os.Exit(1)
	}

	command := os.Args[1]

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	switch command {
	case "fetch":
		if err := Fetch(cfg); err != nil {
			logger.Fatal("failed to fetch corpus", "error", err)
		}

	case "build":
		flags := config.ParseBuildFlags(cfg.KnowledgeCachePath)
		if err := Build(flags); err != nil {
			logger.Fatal("failed to build corpus", "error", err)
		}

	case "stats":
		if err := Stats(cfg, os.Stdout); err != nil {
			logger.Fatal("failed to read corpus", "error", err)
		}

	case "search":
		flags := config.ParseSearchFlags()
		if err := Search(cfg, flags, os.Stdout); err != nil {
			logger.Fatal("failed to search corpus", "error", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}
