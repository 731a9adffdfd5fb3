package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/reference"
)

var (
	searchLimit  int
	searchCiting bool
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().BoolVar(&searchCiting, "citing", false, "Find records whose reference list contains the query as a phrase")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search records by keyword",
	Long: `Full-text search over record titles, authors and reference lists.

Usage:
  citenet search bibliometrics
  citenet search --citing "Small H, 1973"

Run 'citenet rebuild' after importing to refresh the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// SearchResult is one record in search output.
type SearchResult struct {
	Title   string `json:"title"`
	Authors string `json:"authors,omitempty"`
	Year    int    `json:"year,omitempty"`
	DOI     string `json:"doi,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	db := mustOpenDatabase(config.DBPath(root))
	defer db.Close()

	var records []reference.Record
	var err error
	if searchCiting {
		records, err = db.CitingRecords(args[0], searchLimit)
	} else {
		records, err = db.Search(args[0], searchLimit)
	}
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	results := make([]SearchResult, 0, len(records))
	for _, r := range records {
		results = append(results, SearchResult{Title: r.Title, Authors: r.Authors, Year: r.Year, DOI: r.DOI})
	}

	if !humanOutput {
		outputJSON(results)
		return nil
	}
	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%d. %s\n", i+1, truncateString(r.Title, SearchTitleMaxLen))
		if r.Authors != "" || r.Year != 0 {
			fmt.Printf("   %s (%d)\n", truncateString(r.Authors, SearchTitleMaxLen), r.Year)
		}
	}
	return nil
}
