package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/bibtex"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/clipboard"
)

var (
	getBib  bool
	getCopy bool
)

func init() {
	getCmd.Flags().BoolVar(&getBib, "bib", false, "Print the paper as a BibTeX entry")
	getCmd.Flags().BoolVar(&getCopy, "copy", false, "Copy the BibTeX entry to the clipboard")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single paper by id",
	Long: `Get a single paper by its id.

Example:
  cpm get 12
  cpm get 12 --bib
  cpm get 12 --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	p := s.mustGet(args[0])

	switch {
	case getCopy:
		if err := clipboard.Copy(bibtex.Format(p)); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
		if humanOutput {
			fmt.Printf("Copied BibTeX for %d\n", p.ID)
		} else {
			outputJSON(PaperResponse{Status: "copied", ID: p.ID})
		}
	case getBib:
		fmt.Print(bibtex.Format(p))
	case humanOutput:
		printPaperDetail(p)
	default:
		outputJSON(p)
	}
	return nil
}

func printPaperDetail(p catalog.Paper) {
	c := p.Citation
	fmt.Printf("%d\n", p.ID)
	fmt.Println(strings.Repeat("═", 70))
	fmt.Println()

	fmt.Printf("Title:    %s\n", wrapText(c.Title, TextWrapWidth, "          "))
	if len(c.Authors) > 0 {
		fmt.Printf("Authors:  %s\n", wrapText(authorNames(c.Authors), TextWrapWidth, "          "))
	}
	fmt.Printf("Venue:    %s (%s)\n", p.VenueLabel(), c.Type)
	if c.Year != catalog.SentinelYear {
		fmt.Printf("Year:     %d\n", c.Year)
	}
	fmt.Println()

	if len(p.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", entityLabels(p.Tags))
	}
	if len(p.Datasets) > 0 {
		fmt.Printf("Datasets: %s\n", entityLabels(p.Datasets))
	}
	if len(p.Projects) > 0 {
		fmt.Printf("Projects: %s\n", entityLabels(p.Projects))
	}
	fmt.Printf("Rating:   %d/%d\n", p.Rating, catalog.MaxRating)
	fmt.Printf("Read:     %t\n", p.Read)
	fmt.Printf("Code:     %t\n", p.Code)

	if p.Comment != "" {
		fmt.Println()
		fmt.Println("Comment:")
		fmt.Printf("  %s\n", wrapText(p.Comment, TextWrapWidth+8, "  "))
	}
	if p.Path != "" {
		fmt.Println()
		fmt.Printf("File:     %s\n", p.Path)
	}
}
