package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/config"
	"github.com/jialunli-sysu/cloudPapers/internal/storage"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search database from the library",
	Long: `Rebuild the SQLite search database from library.jsonl.

Run this after changing the library outside cpm, or when search results
look stale.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Papers int    `json:"papers"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	count, err := rebuildIndex(s)
	if err != nil {
		exitWithError(ExitError, "rebuilding database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt search database with %d papers\n", count)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Papers: count})
	}
	return nil
}

// rebuildIndex refills the search database from the loaded catalog and
// returns the number of mirrored papers.
func rebuildIndex(s *session) (int, error) {
	if err := os.MkdirAll(config.CachePath(s.root), 0755); err != nil {
		return 0, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := storage.OpenDB(config.DBPath(s.root))
	if err != nil {
		return 0, err
	}
	defer db.Close()
	if _, err := db.RebuildFromSnapshot(s.cat.Snapshot()); err != nil {
		return 0, err
	}
	return db.Count()
}
