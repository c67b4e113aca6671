package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// SentinelYear means "no year". Valid years lie in [SentinelYear, current year].
	SentinelYear = 1900
	// MaxRating is the highest allowed rating; 0 means unrated.
	MaxRating = 5
	// DefaultVenue is the label of the uncategorized venue.
	DefaultVenue = "others"
)

// EntryType distinguishes conference papers from journal articles.
type EntryType uint8

const (
	Conference EntryType = iota
	Journal
)

func (t EntryType) String() string {
	if t == Journal {
		return "journal"
	}
	return "conference"
}

// MarshalText implements encoding.TextMarshaler.
func (t EntryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EntryType) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "conference", "inproceedings", "":
		*t = Conference
	case "journal", "article":
		*t = Journal
	default:
		return fmt.Errorf("unknown entry type %q", string(b))
	}
	return nil
}

// Citation is the bibliographic part of a paper record.
type Citation struct {
	Title   string    `json:"title"` // case-folded
	Authors []*Entity `json:"authors"`
	Venue   *Entity   `json:"venue"`
	Year    int       `json:"year"`
	Raw     string    `json:"raw,omitempty"` // source citation text
	Type    EntryType `json:"type"`
}

// Paper is a catalog record. Entity references are shared with every
// other record that uses the same label.
type Paper struct {
	ID       ID        `json:"id"`
	Citation Citation  `json:"citation"`
	Path     string    `json:"path,omitempty"` // relative to the paper root
	Tags     []*Entity `json:"tags,omitempty"`
	Datasets []*Entity `json:"datasets,omitempty"`
	Projects []*Entity `json:"projects,omitempty"`
	Comment  string    `json:"comment,omitempty"`
	Rating   int       `json:"rating"`
	Read     bool      `json:"read"`
	Code     bool      `json:"code"` // authors released code
}

// Draft carries the plain field values of a paper, before category
// strings are interned. It is the input to Insert and Revise and the
// per-record form stored in snapshots.
type Draft struct {
	Title    string    `json:"title"`
	Authors  []string  `json:"authors,omitempty"`
	Venue    string    `json:"venue"`
	Year     int       `json:"year"`
	Raw      string    `json:"raw,omitempty"`
	Type     EntryType `json:"type"`
	Path     string    `json:"path,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	Datasets []string  `json:"datasets,omitempty"`
	Projects []string  `json:"projects,omitempty"`
	Comment  string    `json:"comment,omitempty"`
	Rating   int       `json:"rating"`
	Read     bool      `json:"read"`
	Code     bool      `json:"code"`
}

// MarshalJSON encodes an entity as its label.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.label)
}

// Draft converts the record back into plain field values.
func (p *Paper) Draft() Draft {
	d := Draft{
		Title:    p.Citation.Title,
		Authors:  labels(p.Citation.Authors),
		Raw:      p.Citation.Raw,
		Year:     p.Citation.Year,
		Type:     p.Citation.Type,
		Path:     p.Path,
		Tags:     labels(p.Tags),
		Datasets: labels(p.Datasets),
		Projects: labels(p.Projects),
		Comment:  p.Comment,
		Rating:   p.Rating,
		Read:     p.Read,
		Code:     p.Code,
	}
	if p.Citation.Venue != nil {
		d.Venue = p.Citation.Venue.label
	}
	return d
}

// VenueLabel returns the venue label, or DefaultVenue when unset.
func (p *Paper) VenueLabel() string {
	if p.Citation.Venue == nil {
		return DefaultVenue
	}
	return p.Citation.Venue.label
}

// clone copies the record's slices so callers can't reorder shared state.
// Entity pointers stay shared.
func (p *Paper) clone() Paper {
	cp := *p
	cp.Citation.Authors = append([]*Entity(nil), p.Citation.Authors...)
	cp.Tags = append([]*Entity(nil), p.Tags...)
	cp.Datasets = append([]*Entity(nil), p.Datasets...)
	cp.Projects = append([]*Entity(nil), p.Projects...)
	return cp
}

func labels(es []*Entity) []string {
	if len(es) == 0 {
		return nil
	}
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.label
	}
	return out
}

// NormalizeTitle case-folds a title for storage and comparison.
func NormalizeTitle(title string) string {
	return foldSpace(title)
}

// NormalizePath cleans a stored relative path. Empty stays empty.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// NormalizeYear maps missing or out-of-range years to SentinelYear.
func NormalizeYear(year int) int {
	if year < SentinelYear || year > currentYear() {
		return SentinelYear
	}
	return year
}

// normalizeRating maps out-of-range ratings to 0.
func normalizeRating(rating int) int {
	if rating < 0 || rating > MaxRating {
		return 0
	}
	return rating
}
