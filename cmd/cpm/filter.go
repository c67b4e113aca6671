package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

func init() {
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(filtersCmd)
}

var filterCmd = &cobra.Command{
	Use:   "filter <facet> [value]",
	Short: "List papers under one filter",
	Long: `List papers under one filter, with read progress.

Facets:
  author, venue, tag, dataset, project   <label>
  year                                   <year>
  rating                                 <0-5>
  unread, code                           (no value)

Examples:
  cpm filter venue neurips
  cpm filter author "Vaswani, Ashish"
  cpm filter unread`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFilter,
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Enumerate the available filter values",
	Long: `Enumerate every label per facet, venues with their display index,
the years and ratings present, and the unread and code counts.`,
	Args: cobra.NoArgs,
	RunE: runFilters,
}

func runFilter(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	ids, err := filterIDs(s, args[0], args[1:])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	outputRows(s.cat, ids)
	return nil
}

// filterIDs resolves a facet and its optional value to paper ids.
func filterIDs(s *session, facet string, rest []string) ([]catalog.ID, error) {
	facet = strings.ToLower(facet)
	switch facet {
	case "unread":
		return s.cat.Unread(), nil
	case "code":
		return s.cat.WithCode(), nil
	}

	if len(rest) != 1 {
		return nil, fmt.Errorf("filter %s needs a value", facet)
	}
	value := rest[0]

	switch facet {
	case "year":
		year, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid year: %q", value)
		}
		return s.cat.ByYear(year), nil
	case "rating":
		rating, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid rating: %q", value)
		}
		return s.cat.ByRating(rating), nil
	}

	kind, err := catalog.ParseKind(facet)
	if err != nil {
		return nil, fmt.Errorf("unknown facet: %s", facet)
	}
	if kind == catalog.KindVenue {
		value = s.venues.Canonical(value)
	}
	return s.cat.ByEntity(kind, value), nil
}

// FiltersResponse enumerates the filter values of a catalog.
type FiltersResponse struct {
	Authors  []string            `json:"authors"`
	Venues   []catalog.VenueInfo `json:"venues"`
	Tags     []string            `json:"tags"`
	Datasets []string            `json:"datasets"`
	Projects []string            `json:"projects"`
	Years    []int               `json:"years"`
	Ratings  []int               `json:"ratings"`
	Unread   int                 `json:"unread"`
	Code     int                 `json:"code"`
}

func newFiltersResponse(c *catalog.Catalog) FiltersResponse {
	return FiltersResponse{
		Authors:  c.Labels(catalog.KindAuthor),
		Venues:   c.Venues(),
		Tags:     c.Labels(catalog.KindTag),
		Datasets: c.Labels(catalog.KindDataset),
		Projects: c.Labels(catalog.KindProject),
		Years:    c.Years(),
		Ratings:  c.Ratings(),
		Unread:   len(c.Unread()),
		Code:     len(c.WithCode()),
	}
}

func runFilters(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	resp := newFiltersResponse(s.cat)

	if !humanOutput {
		outputJSON(resp)
		return nil
	}

	fmt.Println("Venues:")
	for _, v := range resp.Venues {
		fmt.Printf("  [%d] %s (%d)\n", v.Index, v.Label, v.Papers)
	}
	printLabels("Authors", resp.Authors)
	printLabels("Tags", resp.Tags)
	printLabels("Datasets", resp.Datasets)
	printLabels("Projects", resp.Projects)
	fmt.Printf("Years:    %s\n", joinInts(resp.Years))
	fmt.Printf("Ratings:  %s\n", joinInts(resp.Ratings))
	fmt.Printf("Unread:   %d\n", resp.Unread)
	fmt.Printf("Code:     %d\n", resp.Code)
	return nil
}

func printLabels(heading string, labels []string) {
	if len(labels) == 0 {
		return
	}
	fmt.Printf("%s:\n", heading)
	for _, l := range labels {
		fmt.Printf("  %s\n", l)
	}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
