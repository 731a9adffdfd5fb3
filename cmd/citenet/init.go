package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new citenet project",
	Long: `Initialize a new citenet project in the current directory.

Creates:
  .citenet/
  ├── records.jsonl   # Empty file
  ├── config.yml      # Default analysis settings
  └── cache/          # Empty directory (gitignored)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsProject(root) {
		exitWithError(ExitError, "directory already contains a citenet project")
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	recordsFile, err := os.Create(config.RecordsPath(root))
	if err != nil {
		exitWithError(ExitError, "creating records.jsonl: %v", err)
	}
	recordsFile.Close()

	if err := config.Default().Save(root); err != nil {
		exitWithError(ExitError, "creating config.yml: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized citenet project in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
