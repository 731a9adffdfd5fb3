package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/report"
)

var (
	showDB      string
	showCluster int
	showLimit   int
)

func init() {
	showCmd.Flags().StringVar(&showDB, "db", "", "SQLite database holding the run (default: project cache)")
	showCmd.Flags().IntVar(&showCluster, "cluster", 0, "List the nodes of this cluster")
	showCmd.Flags().IntVar(&showLimit, "limit", report.DefaultTopPairs, "Maximum pairs to list")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a saved analysis run",
	Long: `Show the top pairs of an analysis run saved with 'analyze --db'.

Usage:
  citenet show 6f1c0e0a-...
  citenet show 6f1c0e0a-... --cluster 2`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// ShowResult is the response for the show command.
type ShowResult struct {
	RunID string         `json:"run_id"`
	Pairs []cooccur.Pair `json:"pairs"`
	Nodes []report.Node  `json:"nodes,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	path := showDB
	if path == "" {
		path = config.DBPath(mustFindProject())
	}
	db := mustOpenDatabase(path)
	defer db.Close()

	runID := args[0]
	pairs, err := db.TopPairs(runID, showLimit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if len(pairs) == 0 {
		exitWithError(ExitDataError, "no saved pairs for run %s", runID)
	}

	result := ShowResult{RunID: runID, Pairs: pairs}
	if showCluster > 0 {
		result.Nodes, err = db.ClusterNodes(runID, showCluster)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if !humanOutput {
		outputJSON(result)
		return nil
	}
	fmt.Printf("Run %s\n\nTop pairs:\n", runID)
	for _, p := range pairs {
		fmt.Printf("  %4d  %s | %s\n", p.Count, truncateString(p.A, 40), truncateString(p.B, 40))
	}
	if showCluster > 0 {
		fmt.Printf("\nCluster %d:\n", showCluster)
		for _, n := range result.Nodes {
			fmt.Printf("  %-6s %s (degree %d)\n", n.Label, n.Identity, n.Degree)
		}
	}
	return nil
}
