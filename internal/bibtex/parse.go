// Package bibtex extracts citation fields from BibTeX entries and formats
// catalog records back into BibTeX.
package bibtex

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jialunli-sysu/cloudPapers/internal/author"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/venue"
)

// Entry holds the raw field values of one BibTeX entry.
type Entry struct {
	Type   catalog.EntryType
	Key    string
	Title  string
	Author string
	Venue  string // booktitle or journal
	Year   string
}

var entryStartRegex = regexp.MustCompile(`^\s*@(\w+)\s*[{(]\s*([^,\s]*)`)

// fieldRegex matches the start of "name = {" or "name = \"". The name must
// not be preceded by a letter, so "title" does not match "booktitle".
func fieldRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^a-z])` + name + `\s*=\s*([{"])`)
}

var (
	titleField     = fieldRegex("title")
	authorField    = fieldRegex("author")
	booktitleField = fieldRegex("booktitle")
	journalField   = fieldRegex("journal")
	yearField      = fieldRegex("year")
	bareYearField  = regexp.MustCompile(`(?i)(?:^|[^a-z])year\s*=\s*(\d+)`)
)

// Parse extracts the fields of the first entry in raw. Missing fields are
// left empty; anything that isn't "@inproceedings" or "@conference" is
// treated as a journal entry.
func Parse(raw string) Entry {
	var e Entry
	e.Type = catalog.Journal
	if m := entryStartRegex.FindStringSubmatch(raw); m != nil {
		switch strings.ToLower(m[1]) {
		case "inproceedings", "conference":
			e.Type = catalog.Conference
		}
		e.Key = m[2]
	}
	e.Title = field(raw, titleField)
	e.Author = field(raw, authorField)
	e.Venue = field(raw, booktitleField)
	if e.Venue == "" {
		e.Venue = field(raw, journalField)
	}
	e.Year = field(raw, yearField)
	if e.Year == "" {
		if m := bareYearField.FindStringSubmatch(raw); m != nil {
			e.Year = m[1]
		}
	}
	return e
}

// field returns the delimited value of the first match of re, with inner
// braces removed and whitespace collapsed.
func field(raw string, re *regexp.Regexp) string {
	loc := re.FindStringSubmatchIndex(raw)
	if loc == nil {
		return ""
	}
	open := raw[loc[2]]
	start := loc[3]

	var end int
	if open == '"' {
		end = strings.IndexByte(raw[start:], '"')
		if end < 0 {
			return ""
		}
		end += start
	} else {
		depth := 1
		end = -1
		for i := start; i < len(raw); i++ {
			switch raw[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				end = i
				break
			}
		}
		if end < 0 {
			return ""
		}
	}

	v := strings.NewReplacer("{", "", "}", "").Replace(raw[start:end])
	return strings.Join(strings.Fields(v), " ")
}

// Draft converts the entry into catalog field values. The venue goes
// through table, which may be nil. Unparseable or out-of-range years
// become the sentinel year.
func (e Entry) Draft(table *venue.Table, raw string) catalog.Draft {
	year, err := strconv.Atoi(strings.TrimSpace(e.Year))
	if err != nil {
		year = catalog.SentinelYear
	}
	return catalog.Draft{
		Title:   e.Title,
		Authors: author.SplitList(e.Author),
		Venue:   table.Canonical(e.Venue),
		Year:    catalog.NormalizeYear(year),
		Raw:     raw,
		Type:    e.Type,
	}
}

// Extract parses raw and converts it in one step.
func Extract(raw string, table *venue.Table) catalog.Draft {
	return Parse(raw).Draft(table, raw)
}
