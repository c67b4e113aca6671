package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

var (
	editFlags draftFlags
	editForce bool
)

func init() {
	editFlags.register(editCmd)
	editCmd.Flags().BoolVar(&editForce, "force", false, "Apply even if the result duplicates another paper")
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a paper",
	Long: `Change fields of a paper. Only the given flags are changed.

List flags replace the whole list:
  cpm edit 12 --tag nlp,transformers
  cpm edit 12 --read --rating 4
  cpm edit 12 --tag ""       # clear tags`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	p := s.mustGet(args[0])

	d := p.Draft()
	if err := editFlags.apply(cmd, &d, s.venues); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := catalog.Validate(d, s.paperRoot()); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if !editForce {
		mustNotDuplicate(s, d, p.ID)
	}

	if err := s.cat.Revise(p.ID, d); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitError, "revising paper: %v", err)
	}
	s.mustSave()

	if humanOutput {
		fmt.Printf("Updated %d\n", p.ID)
	} else {
		outputJSON(PaperResponse{Status: "updated", ID: p.ID})
	}
	return nil
}
