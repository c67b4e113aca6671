package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jialunli-sysu/cloudPapers/internal/author"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

// Constants for output formatting.
const (
	ListTitleMaxLen   = 60 // Used in list, find and filter output
	SearchTitleMaxLen = 70 // Used in search output
	TextWrapWidth     = 60 // Standard text wrap width
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// PaperResponse reports a mutation of a single paper.
type PaperResponse struct {
	Status string     `json:"status"`
	ID     catalog.ID `json:"id"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RowsResponse is the response for commands that list papers.
type RowsResponse struct {
	Count  int           `json:"count"`
	Read   int           `json:"read"`
	Papers []catalog.Row `json:"papers"`
}

func newRowsResponse(c *catalog.Catalog, ids []catalog.ID) RowsResponse {
	rows := c.Rows(ids)
	read, _ := c.Progress(ids)
	return RowsResponse{Count: len(rows), Read: read, Papers: rows}
}

// printRowsHuman prints a paper listing with a read-progress footer.
func printRowsHuman(resp RowsResponse) {
	if resp.Count == 0 {
		fmt.Println("No papers")
		return
	}
	for _, r := range resp.Papers {
		mark := " "
		if r.Read {
			mark = "✓"
		}
		fmt.Printf("  %4d %s %-*s  %s %d\n", r.ID, mark, ListTitleMaxLen, truncateString(r.Title, ListTitleMaxLen), r.Venue, r.Year)
	}
	fmt.Printf("\n%d/%d read\n", resp.Read, resp.Count)
}

// outputRows writes a listing in the selected format.
func outputRows(c *catalog.Catalog, ids []catalog.ID) {
	resp := newRowsResponse(c, ids)
	if humanOutput {
		printRowsHuman(resp)
	} else {
		outputJSON(resp)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}

// entityLabels joins entity labels for display.
// authorNames joins author entities as "First Last".
func authorNames(es []*catalog.Entity) string {
	names := make([]string, len(es))
	for i, e := range es {
		first, last := e.Name()
		names[i] = author.Name{First: first, Last: last}.Display()
	}
	return strings.Join(names, ", ")
}

func entityLabels(es []*catalog.Entity) string {
	labels := make([]string, len(es))
	for i, e := range es {
		labels[i] = e.Label()
	}
	return strings.Join(labels, ", ")
}
