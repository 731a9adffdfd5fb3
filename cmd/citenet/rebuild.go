package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite record index from records.jsonl.

Use this after importing, backfilling or pulling changes from git. Saved
analysis runs are kept.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	root := mustFindProject()

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db := mustOpenDatabase(config.DBPath(root))
	defer db.Close()

	n, err := db.RebuildFromJSONL(config.RecordsPath(root))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding records database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt index with %d records\n", n)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Records: n})
	}
	return nil
}
