package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set project configuration values in .citenet/config.yml.

Usage:
  citenet config                        # Show all config
  citenet config top_k_cocitation       # Get specific value
  citenet config top_k_cocitation 150   # Set value
  citenet config size_metric closeness

Keys:
  top_k_cocitation   Edges kept in co-citation networks (default 200)
  top_k_coupling     Edges kept in coupling networks (default 100)
  top_pairs          Rows in the top pairs table (default 20)
  top_n              Length of each centrality top list (default 10)
  max_iter           Eigenvector iteration limit (default 1000)
  tolerance          Eigenvector convergence tolerance (default 1e-06)
  size_metric        degree, betweenness, eigenvector or closeness
  weighted_clusters  Use pair counts during community detection
  references_column  Header of the references column in CSV exports`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, key := range config.Keys() {
				v, _ := cfg.Get(key)
				fmt.Printf("%-18s %s\n", key+":", v)
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(exitCodeFor(err), "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
		} else {
			outputJSON(map[string]string{key: v})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}
