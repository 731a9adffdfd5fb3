package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matsen/citenet/internal/analysis"
	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/reference"
	"github.com/matsen/citenet/internal/report"
	"github.com/matsen/citenet/internal/viz"
)

// DefaultOutDir is where analyze writes its tables.
const DefaultOutDir = "citenet-out"

var (
	analyzeInput      string
	analyzeTopK       int
	analyzeTopPairs   int
	analyzeTopN       int
	analyzeCluster    int
	analyzeSizeMetric string
	analyzeWeighted   bool
	analyzeOut        string
	analyzeDB         string
	analyzeCytoscape  string
	analyzeAuthors    bool
)

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeInput, "input", "", "Analyze a CSV export instead of the project records")
	f.IntVar(&analyzeTopK, "top-k", 0, "Keep the K strongest pairs as edges (default from config)")
	f.IntVar(&analyzeTopPairs, "top-pairs", 0, "Rows in the top pairs table (default from config)")
	f.IntVar(&analyzeTopN, "top-n", 0, "Length of each centrality top list (default from config)")
	f.IntVar(&analyzeCluster, "cluster", 0, "Restrict nodes and centrality to one cluster (0 shows all)")
	f.StringVar(&analyzeSizeMetric, "size-metric", "", "Node size metric: "+strings.Join(report.SizeMetrics, ", "))
	f.BoolVar(&analyzeWeighted, "weighted", false, "Use pair counts as weights during community detection")
	f.StringVar(&analyzeOut, "out", DefaultOutDir, "Directory for the CSV tables")
	f.StringVar(&analyzeDB, "db", "", "Also save the report to this SQLite database (\"project\" uses the project cache)")
	f.StringVar(&analyzeCytoscape, "cytoscape", "", "Write Cytoscape.js elements JSON to this file")
	f.BoolVar(&analyzeAuthors, "authors", false, "Add the author productivity table")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:       "analyze <cocitation|coupling>",
	Short:     "Build a reference network and write its report tables",
	ValidArgs: []string{string(cooccur.ModeCoCitation), string(cooccur.ModeCoupling)},
	Long: `Build a co-citation or bibliographic coupling network and report on it.

Usage:
  citenet analyze cocitation
  citenet analyze coupling --input savedrecs.csv --top-k 50 --out results
  citenet analyze cocitation --cluster 2 --size-metric betweenness
  citenet analyze cocitation --db project --cytoscape graph.json

Modes:
  cocitation  nodes are cited references, edges join references cited together
  coupling    nodes are articles, edges join articles sharing references

Tables written to --out:
  top20_co_citation.csv    | top20_bibliographic_coupling.csv
  clusters_summary.csv     | clusters_bc_summary.csv
  legend_co_citation.csv   | legend_bibliographic_coupling.csv
  centrality.csv
  author_metrics.csv       (with --authors)`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

// AnalyzeResult is the response for the analyze command.
type AnalyzeResult struct {
	Summary   analysis.Summary `json:"summary"`
	Tables    []string         `json:"tables"`
	Database  string           `json:"database,omitempty"`
	Cytoscape string           `json:"cytoscape,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, err := cooccur.ParseMode(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	root, cfg := analysisConfig()
	opts := applyAnalyzeFlags(cmd.Flags(), cfg.Options(mode))

	records := loadAnalysisRecords(root, cfg)

	logger := newLogger()
	defer logger.Sync()

	res, err := analysis.New(logger).Run(records, opts)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	out := AnalyzeResult{Summary: res.Summary}
	out.Tables, err = report.WriteDir(analyzeOut, res.Report.Tables())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if analyzeDB != "" {
		out.Database = saveToDatabase(root, res)
	}

	if analyzeCytoscape != "" {
		if err := viz.FromReport(res.Report).WriteFile(analyzeCytoscape); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		out.Cytoscape = analyzeCytoscape
	}

	if humanOutput {
		printAnalyzeHuman(out)
	} else {
		outputJSON(out)
	}
	return nil
}

// analysisConfig returns the project root and config. With --input the
// project is optional and defaults apply outside one.
func analysisConfig() (string, *config.Config) {
	if analyzeInput == "" {
		root := mustFindProject()
		return root, mustLoadConfig(root)
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	root, err := config.ResolveProject(cwd)
	if err != nil {
		return "", config.Default()
	}
	return root, mustLoadConfig(root)
}

// applyAnalyzeFlags overrides config-derived options with explicitly set flags.
func applyAnalyzeFlags(flags *pflag.FlagSet, opts analysis.Options) analysis.Options {
	if flags.Changed("top-k") {
		opts.TopK = analyzeTopK
	}
	if flags.Changed("top-pairs") {
		opts.TopPairs = analyzeTopPairs
	}
	if flags.Changed("top-n") {
		opts.TopN = analyzeTopN
	}
	if flags.Changed("size-metric") {
		opts.SizeMetric = analyzeSizeMetric
	}
	if flags.Changed("weighted") {
		opts.WeightedClusters = analyzeWeighted
	}
	opts.Cluster = analyzeCluster
	opts.Authors = analyzeAuthors
	return opts
}

func loadAnalysisRecords(root string, cfg *config.Config) []reference.Record {
	if analyzeInput == "" {
		records := mustReadRecords(root)
		if len(records) == 0 {
			exitWithError(ExitDataError, "no records in project\n\nRun 'citenet import <file.csv>' first.")
		}
		return records
	}
	records, rowErrs := mustReadTable(analyzeInput, cfg.ReferencesColumn)
	for _, e := range rowErrs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}
	return records
}

// saveToDatabase stores the report and returns the database path.
func saveToDatabase(root string, res *analysis.Result) string {
	path := analyzeDB
	if path == "project" {
		if root == "" {
			exitWithError(ExitConfigError, "--db project requires a citenet project")
		}
		path = config.DBPath(root)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitError, "creating database directory: %v", err)
	}

	db := mustOpenDatabase(path)
	defer db.Close()
	if err := db.SaveReport(res.Summary.RunID, res.Report); err != nil {
		exitWithError(ExitError, "saving report: %v", err)
	}
	return path
}

func printAnalyzeHuman(r AnalyzeResult) {
	s := r.Summary
	label := "Co-citation"
	if s.Mode == cooccur.ModeCoupling {
		label = "Bibliographic coupling"
	}
	fmt.Printf("%s analysis (run %s)\n", label, s.RunID)
	fmt.Printf("  Records:    %d (%d with references, %d without)\n",
		s.Records, s.RecordsWithReferences, s.RecordsMissingReferences)
	fmt.Printf("  References: %d distinct\n", s.DistinctReferences)
	fmt.Printf("  Pairs:      %d\n", s.Pairs)
	fmt.Printf("  Graph:      %d nodes, %d edges\n", s.Nodes, s.Edges)
	fmt.Printf("  Clusters:   %d (modularity %.4f)\n", s.Clusters, s.Modularity)
	for _, w := range s.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	fmt.Println("\nTables:")
	for _, t := range r.Tables {
		fmt.Printf("  %s\n", t)
	}
	if r.Database != "" {
		fmt.Printf("\nSaved to %s\n", r.Database)
	}
	if r.Cytoscape != "" {
		fmt.Printf("Cytoscape elements: %s\n", r.Cytoscape)
	}
}
