package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/bibtex"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/clipboard"
	"github.com/jialunli-sysu/cloudPapers/internal/pdf"
)

var (
	addFlags      draftFlags
	addBib        string
	addGuessTitle bool
	addForce      bool
	addPaste      bool
)

func init() {
	addFlags.register(addCmd)
	addCmd.Flags().StringVar(&addBib, "bib", "", "BibTeX entry: literal text, a file, or - for stdin")
	addCmd.Flags().BoolVar(&addGuessTitle, "guess-title", false, "Take the title from the PDF's first page when none is given")
	addCmd.Flags().BoolVar(&addPaste, "paste", false, "Read the BibTeX entry from the clipboard")
	addCmd.Flags().BoolVar(&addForce, "force", false, "Add even if a paper with the same path or title exists")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a paper",
	Long: `Add a paper to the catalog.

Citation fields come from --bib (or --paste), then individual flags
override them.

Examples:
  cpm add --bib refs/vaswani2017.bib --path papers/attention.pdf --tag nlp
  cpm add --title "Deep Residual Learning" --authors "He, Kaiming" --venue CVPR --year 2016
  cpm add --paste --path papers/adam.pdf
  cpm add --path papers/new.pdf --guess-title`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	var d catalog.Draft
	switch {
	case addPaste:
		raw, err := clipboard.Paste()
		if err != nil {
			exitWithError(ExitError, "reading clipboard: %v", err)
		}
		d = bibtex.Extract(raw, s.venues)
	case addBib != "":
		raw, err := readBib(addBib, cmd.InOrStdin())
		if err != nil {
			exitWithError(ExitError, "reading BibTeX: %v", err)
		}
		d = bibtex.Extract(raw, s.venues)
	}
	if err := addFlags.apply(cmd, &d, s.venues); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if addGuessTitle && d.Title == "" && d.Path != "" {
		title, err := pdf.ExtractTitle(catalog.ResolvePath(s.paperRoot(), d.Path))
		if err != nil {
			logger.Warn().Err(err).Str("path", d.Path).Msg("no title guessed")
		} else {
			d.Title = title
		}
	}

	if err := catalog.Validate(d, s.paperRoot()); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if !addForce {
		mustNotDuplicate(s, d)
	}

	id := s.cat.Insert(d)
	s.mustSave()

	if humanOutput {
		p, _ := s.cat.Get(id)
		fmt.Printf("Added %d: %s\n", id, p.Citation.Title)
	} else {
		outputJSON(PaperResponse{Status: "added", ID: id})
	}
	return nil
}

// mustNotDuplicate exits when d matches a paper other than except.
func mustNotDuplicate(s *session, d catalog.Draft, except ...catalog.ID) {
	err := s.cat.CheckDuplicate(d, except...)
	var dup *catalog.DuplicateError
	if errors.As(err, &dup) {
		exitWithError(ExitDuplicate, "%v (use --force to add anyway)", dup)
	}
}

// readBib resolves a --bib value: "-" reads stdin, an existing file is
// read, anything else is the entry text itself.
func readBib(v string, stdin io.Reader) (string, error) {
	if v == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	if info, err := os.Stat(v); err == nil && !info.IsDir() {
		data, err := os.ReadFile(v)
		return string(data), err
	}
	return v, nil
}
