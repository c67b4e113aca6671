package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// currentYear is a variable so tests can pin the clock.
var currentYear = func() int { return time.Now().Year() }

// Validate checks a draft before it is inserted or used for a revision.
// Relative paths are resolved against root.
func Validate(d Draft, root string) error {
	if !complete(d) {
		return &ValidationError{Field: "citation", Reason: "need at least one of title, authors, venue, year"}
	}
	if d.Year != 0 && (d.Year < SentinelYear || d.Year > currentYear()) {
		return &ValidationError{
			Field:  "year",
			Reason: fmt.Sprintf("%d not in [%d, %d]", d.Year, SentinelYear, currentYear()),
		}
	}
	if d.Rating < 0 || d.Rating > MaxRating {
		return &ValidationError{
			Field:  "rating",
			Reason: fmt.Sprintf("%d not in [0, %d]", d.Rating, MaxRating),
		}
	}
	if d.Path != "" {
		full := ResolvePath(root, d.Path)
		info, err := os.Stat(full)
		if err != nil {
			return &ValidationError{Field: "path", Reason: fmt.Sprintf("%s does not exist", full)}
		}
		if info.IsDir() {
			return &ValidationError{Field: "path", Reason: fmt.Sprintf("%s is a directory", full)}
		}
	}
	return nil
}

func complete(d Draft) bool {
	if strings.TrimSpace(d.Title) != "" {
		return true
	}
	for _, a := range d.Authors {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	if v := foldSpace(d.Venue); v != "" && v != DefaultVenue {
		return true
	}
	return d.Year > SentinelYear
}

// ResolvePath joins a stored relative path onto root. Absolute paths pass through.
func ResolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
