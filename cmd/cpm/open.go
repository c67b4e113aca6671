package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/pdf"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a paper's file in the configured reader",
	Long: `Open a paper's file in the configured reader.

Example:
  cpm open 12`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

// OpenResult is the response for the open command.
type OpenResult struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

func runOpen(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	p := s.mustGet(args[0])

	opener := pdf.NewOpener(s.paperRoot(), s.cfg.PDFReader)
	fullPath, err := opener.ResolvePath(p.Path)
	if err != nil {
		exitWithError(ExitDataError, "paper %d: %v", p.ID, err)
	}
	if err := opener.Open(fullPath); err != nil {
		exitWithError(ExitError, "opening paper: %v", err)
	}

	if humanOutput {
		fmt.Printf("Opening: %s\n", p.Path)
	} else {
		outputJSON(OpenResult{Status: "opened", Path: fullPath})
	}
	return nil
}
