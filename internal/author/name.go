// Package author provides author name parsing and author-list splitting.
package author

import (
	"strings"
)

// Name is a parsed author name.
type Name struct {
	First string // First name(s), may be empty
	Last  string // Last name
}

// ParseName parses an author string into a Name.
//
// Supported formats:
//   - "Yu"           → last="Yu" (single word = last name only)
//   - "Timothy Yu"   → first="Timothy", last="Yu" (space-separated = First Last)
//   - "Yu, Timothy"  → first="Timothy", last="Yu" (comma = Last, First)
//
// Runs of whitespace are collapsed; case is preserved.
func ParseName(input string) Name {
	input = strings.Join(strings.Fields(input), " ")
	if input == "" {
		return Name{}
	}

	// "Last, First"
	if idx := strings.Index(input, ","); idx >= 0 {
		last := strings.TrimSpace(input[:idx])
		first := strings.TrimSpace(strings.ReplaceAll(input[idx+1:], ",", " "))
		first = strings.Join(strings.Fields(first), " ")
		if last == "" {
			return Name{Last: first}
		}
		return Name{First: first, Last: last}
	}

	// "First Last": last word is the last name, e.g. "Timothy C Yu"
	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Name{Last: parts[0]}
	}
	last := parts[len(parts)-1]
	first := strings.Join(parts[:len(parts)-1], " ")
	return Name{First: first, Last: last}
}

// Label returns the interning label "last, first" (or "last"), lowercased.
func (n Name) Label() string {
	last := strings.ToLower(n.Last)
	if n.First == "" {
		return last
	}
	return last + ", " + strings.ToLower(n.First)
}

// Display returns the name as "First Last".
func (n Name) Display() string {
	if n.First == "" {
		return n.Last
	}
	return n.First + " " + n.Last
}

// SplitList splits an author list into individual names.
//
// Lists separated by ";" are split on ";". Otherwise BibTeX-style " and "
// separators are used. Empty items are dropped.
func SplitList(input string) []string {
	var items []string
	if strings.Contains(input, ";") {
		items = strings.Split(input, ";")
	} else {
		items = splitAnd(input)
	}

	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// splitAnd splits on the word "and" regardless of case, e.g. "A and B AND C".
func splitAnd(input string) []string {
	fields := strings.Fields(input)
	var items []string
	var cur []string
	for _, f := range fields {
		if strings.EqualFold(f, "and") {
			items = append(items, strings.Join(cur, " "))
			cur = nil
			continue
		}
		cur = append(cur, f)
	}
	return append(items, strings.Join(cur, " "))
}
