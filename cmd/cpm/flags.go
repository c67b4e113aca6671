package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/author"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/venue"
)

// draftFlags are the per-field flags shared by add and edit.
type draftFlags struct {
	title    string
	authors  string
	venue    string
	year     int
	kind     string
	path     string
	tags     []string
	datasets []string
	projects []string
	comment  string
	rating   int
	read     bool
	code     bool
}

func (f *draftFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "Paper title")
	fs.StringVar(&f.authors, "authors", "", `Author list ("Last, First; Last, First" or "First Last and First Last")`)
	fs.StringVar(&f.venue, "venue", "", "Venue (resolved through the venue table)")
	fs.IntVar(&f.year, "year", 0, "Publication year")
	fs.StringVar(&f.kind, "type", "", "Entry type (conference or journal)")
	fs.StringVar(&f.path, "path", "", "Paper file, relative to the paper root")
	fs.StringSliceVar(&f.tags, "tag", nil, "Tags (repeatable or comma-separated)")
	fs.StringSliceVar(&f.datasets, "dataset", nil, "Datasets (repeatable or comma-separated)")
	fs.StringSliceVar(&f.projects, "project", nil, "Projects (repeatable or comma-separated)")
	fs.StringVar(&f.comment, "comment", "", "Free-form comment")
	fs.IntVar(&f.rating, "rating", 0, fmt.Sprintf("Rating, 0 (unrated) to %d", catalog.MaxRating))
	fs.BoolVar(&f.read, "read", false, "Mark as read")
	fs.BoolVar(&f.code, "code", false, "Authors released code")
}

// apply overwrites the fields of d whose flags were set on cmd.
func (f *draftFlags) apply(cmd *cobra.Command, d *catalog.Draft, venues *venue.Table) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		d.Title = f.title
	}
	if changed("authors") {
		d.Authors = author.SplitList(f.authors)
	}
	if changed("venue") {
		d.Venue = venues.Canonical(f.venue)
	}
	if changed("year") {
		d.Year = f.year
	}
	if changed("type") {
		if err := d.Type.UnmarshalText([]byte(f.kind)); err != nil {
			return err
		}
	}
	if changed("path") {
		d.Path = f.path
	}
	if changed("tag") {
		d.Tags = f.tags
	}
	if changed("dataset") {
		d.Datasets = f.datasets
	}
	if changed("project") {
		d.Projects = f.projects
	}
	if changed("comment") {
		d.Comment = f.comment
	}
	if changed("rating") {
		d.Rating = f.rating
	}
	if changed("read") {
		d.Read = f.read
	}
	if changed("code") {
		d.Code = f.code
	}
	return nil
}

// parseID parses a paper id argument.
func parseID(s string) (catalog.ID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid paper id: %q", s)
	}
	return catalog.ID(n), nil
}

// parseCombine maps a --combine value to a combine mode.
func parseCombine(s string) (catalog.CombineMode, error) {
	switch strings.ToLower(s) {
	case "", "per-term":
		return catalog.CombinePerTerm, nil
	case "literal":
		return catalog.CombineLiteral, nil
	}
	return 0, fmt.Errorf("invalid combine mode: %q (valid: per-term, literal)", s)
}
