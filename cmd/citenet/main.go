// Package main provides the citenet CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/reference"
	"github.com/matsen/citenet/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// verbose enables development logging on stderr
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citenet",
	Short: "Co-citation and bibliographic coupling networks from citation exports",
	Long: `citenet builds reference networks from bibliographic exports.

Core features:
  - Co-citation analysis (references cited together)
  - Bibliographic coupling analysis (articles sharing references)
  - Community detection, centrality ranking and CSV reports
  - Author productivity metrics (h-index, g-index)
  - CrossRef backfill of missing reference lists

Records are stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default for agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stages to stderr")
	rootCmd.Version = Version
}

// newLogger returns a development logger when --verbose is set, otherwise a
// no-op logger.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// mustFindProject finds the project from the working directory or the
// global project_path, exits on error.
func mustFindProject() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	root, err := config.ResolveProject(cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return root
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the SQLite database at path, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(path string) *storage.DB {
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustReadRecords loads the project's records, exits on error.
func mustReadRecords(root string) []reference.Record {
	records, err := storage.ReadRecords(config.RecordsPath(root))
	if err != nil {
		exitWithError(ExitDataError, "reading records: %v", err)
	}
	return records
}
