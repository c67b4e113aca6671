package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/bibtex"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/clipboard"
)

var (
	exportOutput string
	exportCopy   bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy to the clipboard instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Export papers to BibTeX",
	Long: `Export papers to BibTeX. Without ids, every paper is exported.

Examples:
  cpm export > library.bib
  cpm export 3 7 12 -o selected.bib
  cpm export 3 7 --copy`,
	RunE: runExport,
}

// ExportResult is the response for export to a file.
type ExportResult struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count"`
}

func runExport(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	var papers []catalog.Paper
	if len(args) == 0 {
		for _, id := range s.cat.IDs() {
			p, _ := s.cat.Get(id)
			papers = append(papers, p)
		}
	} else {
		for _, arg := range args {
			papers = append(papers, s.mustGet(arg))
		}
	}

	out := bibtex.FormatAll(papers)
	if exportCopy {
		if err := clipboard.Copy(out); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
		if humanOutput {
			fmt.Printf("Copied %d paper(s)\n", len(papers))
		} else {
			outputJSON(ExportResult{Status: "copied", Count: len(papers)})
		}
		return nil
	}
	if exportOutput == "" {
		fmt.Print(out)
		return nil
	}

	if err := os.WriteFile(exportOutput, []byte(out), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", exportOutput, err)
	}
	if humanOutput {
		fmt.Printf("Exported %d paper(s) to %s\n", len(papers), exportOutput)
	} else {
		outputJSON(ExportResult{Status: "exported", Path: exportOutput, Count: len(papers)})
	}
	return nil
}
