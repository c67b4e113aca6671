package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set library configuration values.

Usage:
  cpm config                          # Show all config
  cpm config paper-root               # Get specific value
  cpm config paper-root ~/papers      # Set value
  cpm config pdf-reader zathura       # Set PDF reader

Keys:
  paper-root     Directory paper paths are relative to (default: library root)
  pdf-reader     PDF reader (system, skim, preview, zathura, evince, okular)
  venue-table    Venue alias table, TSV or YAML
  strict-venues  Map venues missing from the table to "others" (true/false)
  fuzzy          Default match mode for find (true/false)
  year-window    Default year window for find`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := mustFindLibrary()
	cfg := mustLoadConfig(root)

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, key := range config.Keys {
				fmt.Printf("%-14s %s\n", key+":", configValue(cfg, key))
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value := configValue(cfg, key)
		if value == "" && !isConfigKey(key) {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if key == "paper_root" || key == "venue_table" {
		value = config.ExpandPath(value)
	}
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// normalizeKey converts key formats (paper-root, paper_root, Paper-Root) to the stored form.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "-", "_")
}

func isConfigKey(key string) bool {
	for _, k := range config.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// configValue returns the string form of a config key, "" for unknown keys.
func configValue(cfg *config.Config, key string) string {
	switch key {
	case "paper_root":
		return cfg.PaperRoot
	case "pdf_reader":
		return cfg.PDFReader
	case "venue_table":
		return cfg.VenueTable
	case "strict_venues":
		return fmt.Sprint(cfg.StrictVenues)
	case "fuzzy":
		return fmt.Sprint(cfg.Fuzzy)
	case "year_window":
		return fmt.Sprint(cfg.YearWindow)
	}
	return ""
}
