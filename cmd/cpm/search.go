package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/config"
	"github.com/jialunli-sysu/cloudPapers/internal/storage"
)

// DefaultSearchLimit is the default --limit for search.
const DefaultSearchLimit = 50

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the library",
	Long: `Full-text search over titles, authors, venues, tags, comments and raw
citations. The search database is built on first use; run 'cpm rebuild'
to refresh it.

Query Syntax:
  Plain text     - Searches every field
  author:name    - Search author names only (prefix match)
  title:text     - Search titles only
  venue:text     - Search venues only
  tag:text       - Search tags, datasets and projects
  comment:text   - Search comments only

Examples:
  cpm search transformer
  cpm search author:vaswani
  cpm search "title:residual learning"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// searchFields are the prefixes recognized by search.
var searchFields = []string{"author", "title", "venue", "tag", "comment"}

// splitSearchQuery separates a "field:value" prefix from the query.
func splitSearchQuery(query string) (field, value string) {
	for _, f := range searchFields {
		if v, ok := strings.CutPrefix(query, f+":"); ok {
			return f, v
		}
	}
	return "", query
}

func runSearch(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	if _, err := os.Stat(config.DBPath(s.root)); os.IsNotExist(err) {
		if _, err := rebuildIndex(s); err != nil {
			exitWithError(ExitError, "building search database: %v", err)
		}
	}

	db, err := storage.OpenDB(config.DBPath(s.root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	var hits []storage.Hit
	if field, value := splitSearchQuery(args[0]); field != "" {
		hits, err = db.SearchField(field, value, searchLimit)
	} else {
		hits, err = db.Search(value, searchLimit)
	}
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	// Empty result is not an error
	if humanOutput {
		if len(hits) == 0 {
			fmt.Println("No papers found")
			return nil
		}
		for _, h := range hits {
			fmt.Printf("  %4d  %-*s  %s %d\n", h.ID, SearchTitleMaxLen, truncateString(h.Title, SearchTitleMaxLen), h.Venue, h.Year)
		}
		return nil
	}
	if hits == nil {
		hits = []storage.Hit{}
	}
	outputJSON(hits)
	return nil
}
