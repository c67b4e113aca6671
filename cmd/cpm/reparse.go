package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/bibtex"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

var reparseDryRun bool

func init() {
	reparseCmd.Flags().BoolVar(&reparseDryRun, "dry-run", false, "Report changes without saving")
	rootCmd.AddCommand(reparseCmd)
}

var reparseCmd = &cobra.Command{
	Use:   "reparse",
	Short: "Re-extract citations from stored BibTeX",
	Long: `Re-run BibTeX extraction over every stored raw citation and revise
the citation fields (title, authors, venue, year, type) that changed.
Tags, ratings, comments and other personal fields are kept.

Run this after editing the venue table.`,
	Args: cobra.NoArgs,
	RunE: runReparse,
}

// ReparseResult is the response for the reparse command.
type ReparseResult struct {
	Status  string       `json:"status"`
	Scanned int          `json:"scanned"`
	Revised []catalog.ID `json:"revised"`
}

func runReparse(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	result := ReparseResult{Status: "reparsed", Revised: []catalog.ID{}}
	for _, id := range s.cat.IDs() {
		p, _ := s.cat.Get(id)
		if p.Citation.Raw == "" {
			continue
		}
		result.Scanned++

		d, changed := reparseDraft(p.Draft(), bibtex.Extract(p.Citation.Raw, s.venues))
		if !changed {
			continue
		}
		result.Revised = append(result.Revised, id)
		if reparseDryRun {
			continue
		}
		if err := s.cat.Revise(id, d); err != nil {
			exitWithError(ExitError, "revising paper %d: %v", id, err)
		}
	}

	if reparseDryRun {
		result.Status = "dry-run"
	} else if len(result.Revised) > 0 {
		s.mustSave()
	}

	if humanOutput {
		fmt.Printf("Scanned %d citations, %d changed\n", result.Scanned, len(result.Revised))
	} else {
		outputJSON(result)
	}
	return nil
}

// reparseDraft copies the citation fields of extracted into current and
// reports whether any of them differ once normalized.
func reparseDraft(current, extracted catalog.Draft) (catalog.Draft, bool) {
	next := current
	next.Title = extracted.Title
	next.Authors = extracted.Authors
	next.Venue = extracted.Venue
	next.Year = extracted.Year
	next.Type = extracted.Type

	changed := catalog.NormalizeTitle(next.Title) != current.Title ||
		normalizedVenue(next.Venue) != current.Venue ||
		next.Year != current.Year ||
		next.Type != current.Type ||
		!slices.Equal(normalizedAuthors(next.Authors), current.Authors)
	return next, changed
}

func normalizedVenue(v string) string {
	v = catalog.NormalizeLabel(catalog.KindVenue, v)
	if v == "" {
		return catalog.DefaultVenue
	}
	return v
}

func normalizedAuthors(raw []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range raw {
		label := catalog.NormalizeLabel(catalog.KindAuthor, a)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
