package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/importer"
	"github.com/jialunli-sysu/cloudPapers/internal/venue"
)

var (
	importFormat string
	importDryRun bool
)

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "Import format: bibtex or paperpile (default: from the file extension)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import papers from a BibTeX file or a Paperpile export",
	Long: `Import papers from a BibTeX file or a Paperpile JSON export.

Papers matching an existing one by path or title are skipped, as are
entries without a title or author and entries that fail validation
(year or rating out of range, or a file path missing under the paper root).

Usage:
  cpm import library.bib
  cpm import --format paperpile export.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Errors   []string       `json:"errors"`
	DryRun   bool           `json:"dry_run,omitempty"`
	Details  []ImportDetail `json:"details,omitempty"`
}

// ImportDetail describes a single import action.
type ImportDetail struct {
	ID     catalog.ID `json:"id,omitempty"`
	Action string     `json:"action"` // import, skip
	Title  string     `json:"title"`
	Reason string     `json:"reason,omitempty"`
}

// parseImport decodes an import file in the given or inferred format.
func parseImport(path, format string, table *venue.Table) ([]catalog.Draft, []error, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = "paperpile"
		default:
			format = "bibtex"
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading file: %w", err)
	}

	switch format {
	case "bibtex":
		drafts, errs := importer.ParseBibFile(data, table)
		return drafts, errs, nil
	case "paperpile":
		drafts, errs := importer.ParsePaperpile(data, table)
		return drafts, errs, nil
	}
	return nil, nil, fmt.Errorf("unknown format: %s (valid: bibtex, paperpile)", format)
}

// importDrafts inserts drafts that validate against the paper root and
// don't duplicate an existing paper or an earlier draft of the same batch.
func importDrafts(c *catalog.Catalog, drafts []catalog.Draft, root string) ImportResult {
	result := ImportResult{Errors: []string{}}
	for _, d := range drafts {
		detail := ImportDetail{Title: truncateString(catalog.NormalizeTitle(d.Title), ListTitleMaxLen)}

		var dup *catalog.DuplicateError
		if err := catalog.Validate(d, root); err != nil {
			detail.Action = "skip"
			detail.Reason = err.Error()
			result.Skipped++
		} else if err := c.CheckDuplicate(d); errors.As(err, &dup) {
			detail.Action = "skip"
			detail.Reason = fmt.Sprintf("same %s as %d", dup.Reason, dup.ID)
			result.Skipped++
		} else {
			detail.ID = c.Insert(d)
			detail.Action = "import"
			result.Imported++
		}
		result.Details = append(result.Details, detail)
	}
	return result
}

func runImport(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	drafts, parseErrors, err := parseImport(args[0], importFormat, s.venues)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if len(parseErrors) > 0 && len(drafts) == 0 {
		// Only fatal if nothing was parsed
		exitWithError(ExitDataError, "failed to parse any papers: %v", parseErrors[0])
	}

	result := importDrafts(s.cat, drafts, s.paperRoot())
	for _, e := range parseErrors {
		result.Errors = append(result.Errors, e.Error())
	}
	result.Skipped += len(parseErrors)

	if importDryRun {
		result.DryRun = true
	} else if result.Imported > 0 {
		s.mustSave()
	}

	if humanOutput {
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Printf("%s %d papers, skipped %d\n", verb, result.Imported, result.Skipped)
		for _, d := range result.Details {
			if d.Action == "skip" {
				fmt.Printf("  skip  %s (%s)\n", d.Title, d.Reason)
			}
		}
		for _, e := range result.Errors {
			fmt.Printf("  error %s\n", e)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
