package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/crossref"
	"github.com/matsen/citenet/internal/storage"
)

var backfillDryRun bool

func init() {
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "Look up records without writing them")
	rootCmd.AddCommand(backfillCmd)
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Fill missing reference lists from CrossRef",
	Long: `Fill missing fields of project records from the CrossRef works API.

For every record with a DOI, a null reference list, citation count or year
is looked up and filled. Existing values are never overwritten.

Set CROSSREF_MAILTO (environment or .env) or crossref_mailto in the global
config to use the CrossRef polite pool.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

// BackfillResult is the response for the backfill command.
type BackfillResult struct {
	crossref.BackfillStats
	DryRun bool `json:"dry_run,omitempty"`
}

func runBackfill(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	root := mustFindProject()
	records := mustReadRecords(root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := crossref.NewClient(crossref.WithMailto(config.GetCrossrefMailto()))
	filled, stats, err := client.Backfill(ctx, records)
	if err != nil {
		exitWithError(ExitError, "backfill interrupted: %v", err)
	}

	if !backfillDryRun {
		if err := storage.WriteRecords(config.RecordsPath(root), filled); err != nil {
			exitWithError(ExitError, "writing records: %v", err)
		}
	}

	result := BackfillResult{BackfillStats: stats, DryRun: backfillDryRun}
	if !humanOutput {
		outputJSON(result)
		return nil
	}
	fmt.Printf("Looked up %d records\n", stats.Looked)
	fmt.Printf("  References filled: %d\n", stats.References)
	fmt.Printf("  Citations filled:  %d\n", stats.Citations)
	fmt.Printf("  Years filled:      %d\n", stats.Years)
	fmt.Printf("  Not in CrossRef:   %d\n", stats.NotFound)
	for doi, msg := range stats.Failed {
		fmt.Printf("  failed %s: %s\n", doi, msg)
	}
	return nil
}
