// Package config handles library and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jialunli-sysu/cloudPapers/internal/pdf"
)

// Config represents library configuration stored in .cloudpapers/config.json.
type Config struct {
	PaperRoot    string `json:"paper_root,omitempty"`    // Directory paper paths are relative to; empty means the library root
	PDFReader    string `json:"pdf_reader,omitempty"`    // Reader preference: system, skim, zathura, etc.
	VenueTable   string `json:"venue_table,omitempty"`   // Venue alias table, relative to the library root or absolute
	StrictVenues bool   `json:"strict_venues,omitempty"` // Unknown venues become "others"
	Fuzzy        bool   `json:"fuzzy,omitempty"`         // Default match mode for find
	YearWindow   int    `json:"year_window,omitempty"`   // Default year window for find
}

const (
	LibraryDir  = ".cloudpapers"
	ConfigFile  = "config.json"
	LibraryFile = "library.jsonl"
	CacheDir    = "cache"
	DBFile      = "papers.db"
	ArchivesDir = "archives"
)

// LibraryPath returns the path to the .cloudpapers directory from a root path.
func LibraryPath(root string) string {
	return filepath.Join(root, LibraryDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, LibraryDir, ConfigFile)
}

// SnapshotPath returns the path to library.jsonl from a root path.
func SnapshotPath(root string) string {
	return filepath.Join(root, LibraryDir, LibraryFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, LibraryDir, CacheDir)
}

// DBPath returns the path to papers.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, LibraryDir, CacheDir, DBFile)
}

// ArchivesPath returns the directory holding local snapshot archives.
func ArchivesPath(root string) string {
	return filepath.Join(root, LibraryDir, ArchivesDir)
}

// IsLibrary checks if the given path contains a library.
func IsLibrary(root string) bool {
	info, err := os.Stat(LibraryPath(root))
	return err == nil && info.IsDir()
}

// FindLibrary walks up from the given path to find a library.
// Returns the library root path or an error if not found.
func FindLibrary(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsLibrary(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a library (no %s directory found)", LibraryDir)
		}
		abs = parent
	}
}

// Load reads configuration from the library at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the library at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ResolvedPaperRoot returns the absolute paper root for a library.
func (c *Config) ResolvedPaperRoot(root string) string {
	return resolveAgainst(root, c.PaperRoot)
}

// ResolvedVenueTable returns the venue table path, or "" when unset.
func (c *Config) ResolvedVenueTable(root string) string {
	if c.VenueTable == "" {
		return ""
	}
	return resolveAgainst(root, c.VenueTable)
}

func resolveAgainst(root, path string) string {
	if path == "" {
		return root
	}
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Set assigns a config key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "paper_root":
		if err := ValidatePaperRoot(value); err != nil {
			return err
		}
		c.PaperRoot = value
	case "pdf_reader":
		if err := ValidatePDFReader(value); err != nil {
			return err
		}
		c.PDFReader = value
	case "venue_table":
		c.VenueTable = value
	case "strict_venues":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid strict_venues: %w", err)
		}
		c.StrictVenues = b
	case "fuzzy":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid fuzzy: %w", err)
		}
		c.Fuzzy = b
	case "year_window":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n < 0 {
			return fmt.Errorf("invalid year_window: %q (want a non-negative integer)", value)
		}
		c.YearWindow = n
	default:
		return fmt.Errorf("unknown config key: %s (valid: %v)", key, Keys)
	}
	return nil
}

// Keys lists the settable library config keys.
var Keys = []string{"paper_root", "pdf_reader", "venue_table", "strict_venues", "fuzzy", "year_window"}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

// ValidatePaperRoot checks that the paper root path exists and is a directory.
func ValidatePaperRoot(path string) error {
	if path == "" {
		return nil // Empty means the library root
	}

	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expandedPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expandedPath)
	}

	return nil
}

// ValidatePDFReader checks that the reader value is valid.
func ValidatePDFReader(reader string) error {
	if reader == "" {
		return nil // Empty defaults to "system"
	}

	for _, valid := range pdf.Readers {
		if reader == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid pdf_reader: %s (valid: %v)", reader, pdf.Readers)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
