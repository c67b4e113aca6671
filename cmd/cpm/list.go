package main

import (
	"github.com/spf13/cobra"
)

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all papers",
	Long: `List all papers in id order.

Examples:
  cpm list
  cpm list --limit 20 --human`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()

	ids := s.cat.IDs()
	if listLimit > 0 && listLimit < len(ids) {
		ids = ids[:listLimit]
	}
	outputRows(s.cat, ids)
	return nil
}
