package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Remove papers",
	Long: `Remove papers from the catalog. Their ids become free for reuse.
Nothing is removed if any id is unknown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

// RemoveResult is the response for the remove command.
type RemoveResult struct {
	Status  string       `json:"status"`
	Removed []catalog.ID `json:"removed"`
}

func runRemove(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	ids := make([]catalog.ID, len(args))
	for i, arg := range args {
		ids[i] = s.mustGet(arg).ID
	}
	for _, id := range ids {
		s.cat.Remove(id)
	}
	s.mustSave()

	if humanOutput {
		fmt.Printf("Removed %d paper(s)\n", len(ids))
	} else {
		outputJSON(RemoveResult{Status: "removed", Removed: ids})
	}
	return nil
}
