package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/config"
	"github.com/jialunli-sysu/cloudPapers/internal/storage"
)

var (
	initPaperRoot  string
	initVenueTable string
)

func init() {
	initCmd.Flags().StringVar(&initPaperRoot, "paper-root", "", "Directory paper paths are relative to (default: the library root)")
	initCmd.Flags().StringVar(&initVenueTable, "venue-table", "", "Venue alias table (TSV or YAML)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new library",
	Long: `Initialize a new library in the current directory.

Creates:
  .cloudpapers/
  ├── library.jsonl   # Empty catalog
  ├── config.json     # Default config
  ├── archives/       # Local snapshot archives
  └── cache/          # SQLite search mirror (rebuildable)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsLibrary(root) {
		exitWithError(ExitError, "directory already contains a library")
	}

	if err := config.ValidatePaperRoot(initPaperRoot); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	for _, dir := range []string{config.CachePath(root), config.ArchivesPath(root)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			exitWithError(ExitError, "creating %s: %v", dir, err)
		}
	}

	empty := catalog.New().Snapshot()
	if err := storage.Save(config.SnapshotPath(root), empty); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.LibraryFile, err)
	}

	cfg := &config.Config{
		PaperRoot:  initPaperRoot,
		PDFReader:  "system",
		VenueTable: initVenueTable,
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.ConfigFile, err)
	}

	if humanOutput {
		fmt.Printf("Initialized library in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
