package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/importer"
	"github.com/matsen/citenet/internal/reference"
	"github.com/matsen/citenet/internal/storage"
)

var (
	importDryRun     bool
	importRefsColumn string
)

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	importCmd.Flags().StringVar(&importRefsColumn, "references-column", "", "Header of the references column (overrides config)")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import records from a citation export",
	Long: `Import records from a CSV citation export into the project.

Usage:
  citenet import savedrecs.csv
  citenet import savedrecs.csv --dry-run

The file needs a Title column and a references column ("Article References"
or "Cited References"). Authors, Times Cited, Publication Year and DOI are
read when present. Records matching an existing DOI, or else title, replace
the stored record.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	New     int            `json:"new"`
	Updated int            `json:"updated"`
	DryRun  bool           `json:"dry_run,omitempty"`
	Errors  []string       `json:"errors"`
	Details []ImportDetail `json:"details,omitempty"`
}

// ImportDetail describes a single import action.
type ImportDetail struct {
	Action string `json:"action"` // new, update
	Title  string `json:"title"`
}

func runImport(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)

	column := cfg.ReferencesColumn
	if importRefsColumn != "" {
		column = importRefsColumn
	}
	incoming, rowErrs := mustReadTable(args[0], column)

	recordsPath := config.RecordsPath(root)
	existing := mustReadRecords(root)
	plan := storage.PlanImport(existing, incoming)

	result := ImportResult{DryRun: importDryRun, Errors: errorsToStrings(rowErrs)}
	for _, a := range plan {
		if a.Action == storage.ActionNew {
			result.New++
		} else {
			result.Updated++
		}
		if importDryRun {
			result.Details = append(result.Details, ImportDetail{
				Action: a.Action,
				Title:  truncateString(a.Record.Title, ImportTitleMaxLen),
			})
		}
	}

	if !importDryRun {
		if err := storage.WriteRecords(recordsPath, storage.ApplyImport(existing, plan)); err != nil {
			exitWithError(ExitError, "writing records: %v", err)
		}
	}

	reportImport(result)
	return nil
}

// mustReadTable parses a CSV export, exits on unreadable or malformed input.
func mustReadTable(path, column string) ([]reference.Record, []error) {
	f, err := os.Open(path)
	if err != nil {
		exitWithError(ExitError, "reading file: %v", err)
	}
	defer f.Close()

	records, rowErrs, err := importer.ReadTable(f, importer.Options{ReferencesColumn: column})
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	return records, rowErrs
}

func reportImport(r ImportResult) {
	if !humanOutput {
		outputJSON(r)
		return
	}
	if r.DryRun {
		fmt.Println("Dry run - would import:")
		for _, d := range r.Details {
			fmt.Printf("  [%s] %s\n", d.Action, d.Title)
		}
	}
	fmt.Printf("New:     %d records\n", r.New)
	fmt.Printf("Updated: %d records (matched by DOI or title)\n", r.Updated)
	if len(r.Errors) > 0 {
		fmt.Println("\nRow errors:")
		for _, e := range r.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
