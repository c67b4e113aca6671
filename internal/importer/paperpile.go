// Package importer turns external library exports into catalog drafts.
package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/venue"
)

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	// Handle null
	if string(data) == "null" {
		*f = ""
		return nil
	}

	// Try string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	// Try number
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// PaperpileEntry is the subset of a Paperpile JSON export entry the
// catalog uses.
type PaperpileEntry struct {
	ID        string `json:"_id"`
	Citekey   string `json:"citekey"`
	Title     string `json:"title"`
	Journal   string `json:"journal"`
	PubType   string `json:"pubtype"`
	Published struct {
		Year FlexibleString `json:"year"`
	} `json:"published"`
	Author []struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"author"`
	Labels      []string `json:"labelsNamed"`
	Attachments []struct {
		ArticlePDF int    `json:"article_pdf"` // 1 = main PDF, 0 = supplement
		Filename   string `json:"filename"`
	} `json:"attachments"`
}

// ParsePaperpile parses a Paperpile JSON export. Entries that can't be
// converted are reported and skipped.
func ParsePaperpile(data []byte, table *venue.Table) ([]catalog.Draft, []error) {
	var entries []PaperpileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, []error{fmt.Errorf("parsing Paperpile JSON: %w", err)}
	}

	var drafts []catalog.Draft
	var errs []error
	for i, entry := range entries {
		d, err := paperpileEntryToDraft(entry, table)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i+1, entry.Citekey, err))
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, errs
}

func paperpileEntryToDraft(entry PaperpileEntry, table *venue.Table) (catalog.Draft, error) {
	if strings.TrimSpace(entry.Title) == "" {
		return catalog.Draft{}, fmt.Errorf("missing required field 'title'")
	}

	year := catalog.SentinelYear
	if y := entry.Published.Year.String(); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			return catalog.Draft{}, fmt.Errorf("invalid year: %s", y)
		}
		year = catalog.NormalizeYear(n)
	}

	authors := make([]string, 0, len(entry.Author))
	for _, a := range entry.Author {
		switch {
		case a.Last == "":
			authors = append(authors, a.First)
		case a.First == "":
			authors = append(authors, a.Last)
		default:
			authors = append(authors, a.Last+", "+a.First)
		}
	}

	var path string
	for _, att := range entry.Attachments {
		if att.ArticlePDF == 1 {
			path = att.Filename
			break
		}
	}

	typ := catalog.Journal
	if entry.PubType == "conference" || entry.PubType == "inproceedings" {
		typ = catalog.Conference
	}

	return catalog.Draft{
		Title:   entry.Title,
		Authors: authors,
		Venue:   table.Canonical(entry.Journal),
		Year:    year,
		Type:    typ,
		Path:    path,
		Tags:    entry.Labels,
	}, nil
}
