package importer

import (
	"fmt"
	"strings"

	"github.com/jialunli-sysu/cloudPapers/internal/bibtex"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/venue"
)

// nonEntryTypes are BibTeX commands that don't describe a paper.
var nonEntryTypes = map[string]bool{"comment": true, "string": true, "preamble": true}

// SplitBibTeX splits a .bib file into its top-level entries. Text between
// entries is ignored; an unterminated entry runs to the end of the input.
func SplitBibTeX(data string) []string {
	var entries []string
	for {
		start := strings.IndexByte(data, '@')
		if start < 0 {
			return entries
		}
		data = data[start:]

		open := strings.IndexAny(data, "{(")
		if open < 0 {
			return entries
		}
		end := matchClose(data, open)
		entry := strings.TrimSpace(data[:end])
		typ := strings.ToLower(strings.TrimSpace(data[1:open]))
		if !nonEntryTypes[typ] {
			entries = append(entries, entry)
		}
		data = data[end:]
	}
}

// matchClose returns the index just past the delimiter closing the one at
// open, or len(s) when it is never closed.
func matchClose(s string, open int) int {
	opener, closer := s[open], byte('}')
	if opener == '(' {
		closer = ')'
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// ParseBibFile extracts a draft from every entry of a .bib file. Entries
// without any citation field are reported and skipped.
func ParseBibFile(data []byte, table *venue.Table) ([]catalog.Draft, []error) {
	var drafts []catalog.Draft
	var errs []error
	for i, raw := range SplitBibTeX(string(data)) {
		e := bibtex.Parse(raw)
		if e.Title == "" && e.Author == "" {
			errs = append(errs, fmt.Errorf("entry %d (%s): no title or author", i+1, e.Key))
			continue
		}
		drafts = append(drafts, e.Draft(table, raw))
	}
	return drafts, errs
}
