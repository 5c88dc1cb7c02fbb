package config

import (
	"flag"
	"os"
)

// parses CLI flags for the build subcommand
func ParseBuildFlags(defaultOut string) BuildFlags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("build", flag.ExitOnError)
	path := fs.String("path", "./knowledge", "directory of corpus fragments (.json, .yaml, .yml)")
	out := fs.String("out", defaultOut, "corpus file to write")
	version := fs.String("version", "", "version to stamp on the merged corpus")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return BuildFlags{Path: *path, Out: *out, Version: *version}
}

// parses CLI flags for the search subcommand; remaining args form the query
func ParseSearchFlags() SearchFlags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	digest := fs.Bool("digest", false, "print the prompt digest instead of ranked hits")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return SearchFlags{Digest: *digest, Args: fs.Args()}
}
