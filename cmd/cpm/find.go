package main

import (
	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

var (
	findQuery      catalog.Query
	findFuzzy      bool
	findExact      bool
	findYearWindow int
	findCombine    string
	findUnread     bool
)

func init() {
	fs := findCmd.Flags()
	fs.StringVar(&findQuery.Title, "title", "", "Title (substring match when fuzzy)")
	fs.StringArrayVar(&findQuery.Authors, "author", nil, "Author, repeatable; every author must match")
	fs.StringVar(&findQuery.Venue, "venue", "", "Venue")
	fs.IntVar(&findQuery.Year, "year", 0, "Publication year")
	fs.StringSliceVar(&findQuery.Tags, "tag", nil, "Tags; every tag must match")
	fs.StringSliceVar(&findQuery.Datasets, "dataset", nil, "Datasets; every dataset must match")
	fs.StringSliceVar(&findQuery.Projects, "project", nil, "Projects; every project must match")
	fs.BoolVar(&findFuzzy, "fuzzy", false, "Match by containment instead of equality (default from config)")
	fs.BoolVar(&findExact, "exact", false, "Match by equality, overriding the configured default")
	fs.IntVar(&findYearWindow, "year-window", 0, "Accept years within this distance of --year (default from config)")
	fs.StringVar(&findCombine, "combine", "per-term", "How fuzzy matches combine: per-term or literal")
	fs.BoolVar(&findUnread, "unread", false, "Only papers not yet read")
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find papers by field values",
	Long: `Find papers matching every given field.

A query with no fields matches nothing. Fuzzy matching accepts labels that
contain the query or are contained in it; an exact hit always wins.

Examples:
  cpm find --venue neurips --year 2017 --year-window 1
  cpm find --author "smith" --fuzzy --combine literal
  cpm find --tag nlp --tag transformers --unread`,
	Args: cobra.NoArgs,
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	combine, err := parseCombine(findCombine)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	opts := catalog.SearchOptions{
		Fuzzy:      s.cfg.Fuzzy,
		YearWindow: s.cfg.YearWindow,
		Combine:    combine,
	}
	if cmd.Flags().Changed("fuzzy") {
		opts.Fuzzy = findFuzzy
	}
	if findExact {
		opts.Fuzzy = false
	}
	if cmd.Flags().Changed("year-window") {
		opts.YearWindow = findYearWindow
	}
	if findUnread {
		opts.Within = s.cat.Unread()
	}

	q := findQuery
	if q.Venue != "" {
		q.Venue = s.venues.Canonical(q.Venue)
	}

	ids := s.cat.Find(q, opts)
	logger.Debug().Interface("query", q).Bool("fuzzy", opts.Fuzzy).Int("hits", len(ids)).Msg("find")
	outputRows(s.cat, ids)
	return nil
}
