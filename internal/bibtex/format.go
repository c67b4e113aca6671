package bibtex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

// Format renders a record as a BibTeX entry.
func Format(p catalog.Paper) string {
	entryType, venueField := "inproceedings", "booktitle"
	if p.Citation.Type == catalog.Journal {
		entryType, venueField = "article", "journal"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, CiteKey(p)))
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Citation.Title)))
	if len(p.Citation.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(p.Citation.Authors)))
	}
	if v := p.VenueLabel(); v != catalog.DefaultVenue {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", venueField, escapeLatex(v)))
	}
	if p.Citation.Year > catalog.SentinelYear {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", p.Citation.Year))
	}
	b.WriteString("}\n")
	return b.String()
}

// FormatAll renders records separated by blank lines.
func FormatAll(papers []catalog.Paper) string {
	entries := make([]string, 0, len(papers))
	for _, p := range papers {
		entries = append(entries, Format(p))
	}
	return strings.Join(entries, "\n")
}

var firstWordRegex = regexp.MustCompile(`^[a-zA-Z]+`)

// CiteKey builds "<first author last name><year><first title word>",
// e.g. "vaswani2017attention".
func CiteKey(p catalog.Paper) string {
	var last string
	if len(p.Citation.Authors) > 0 {
		_, last = p.Citation.Authors[0].Name()
		last = strings.Join(strings.Fields(last), "")
	}
	word := firstWordRegex.FindString(p.Citation.Title)
	return last + strconv.Itoa(p.Citation.Year) + word
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []*catalog.Entity) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		first, last := a.Name()
		if first != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", last, first))
		} else {
			formatted = append(formatted, last)
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// & first, so later escapes aren't re-escaped
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
