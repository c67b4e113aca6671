// Package main provides the cpm CLI entry point.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/config"
	"github.com/jialunli-sysu/cloudPapers/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	logJSON     bool
	logger      = zerolog.Nop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cpm",
	Short: "Personal catalog of research papers",
	Long: `cpm keeps a personal catalog of research papers.

Papers carry a citation (title, authors, venue, year), a file path, tags,
datasets, projects, a comment, a rating and a read flag. The catalog is
stored as JSONL in .cloudpapers/library.jsonl with an ephemeral SQLite
mirror for full-text search. Snapshots can be backed up to any
S3-compatible bucket.

All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log catalog activity to stderr")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON lines")
	rootCmd.Version = Version
}

// newLogger builds the logger selected by --log-json and --verbose.
func newLogger(w io.Writer) zerolog.Logger {
	if logJSON {
		return logging.NewJSON(w, verbose)
	}
	return logging.New(w, verbose)
}

// mustFindLibrary finds the library enclosing the working directory, or
// the configured library_path. Exits on error.
func mustFindLibrary() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if root, err := config.FindLibrary(cwd); err == nil {
		return root
	}

	root, err := config.DefaultLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if root == "" {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return root
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}
