// Package venue maps venue aliases to canonical venue labels.
//
// A table is read either from a tab-separated file of "alias<TAB>canonical"
// lines or from a YAML mapping of canonical label to its aliases:
//
//	neurips:
//	  - nips
//	  - advances in neural information processing systems
//	icml: [international conference on machine learning]
package venue

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

// Table resolves venue strings to canonical labels. A nil *Table only
// normalizes.
type Table struct {
	aliases   map[string]string
	canonical []string
	known     map[string]bool

	// Strict maps venues that are neither an alias nor a canonical label
	// to the default venue.
	Strict bool
}

// New returns an empty table.
func New() *Table {
	return &Table{
		aliases: make(map[string]string),
		known:   make(map[string]bool),
	}
}

// Add registers alias as another name for canonical. The canonical label
// maps to itself.
func (t *Table) Add(alias, canonical string) {
	alias = normalize(alias)
	canonical = normalize(canonical)
	if canonical == "" {
		return
	}
	if !t.known[canonical] {
		t.known[canonical] = true
		t.canonical = append(t.canonical, canonical)
	}
	if alias != "" {
		t.aliases[alias] = canonical
	}
}

// Canonical returns the canonical label for raw. Unknown venues are
// returned normalized, or as the default venue in strict mode. Empty input
// stays empty.
func (t *Table) Canonical(raw string) string {
	v := normalize(raw)
	if v == "" || t == nil {
		return v
	}
	if c, ok := t.aliases[v]; ok {
		return c
	}
	if t.known[v] {
		return v
	}
	if t.Strict {
		return catalog.DefaultVenue
	}
	return v
}

// Labels returns the canonical labels in table order.
func (t *Table) Labels() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.canonical...)
}

// Len returns the number of aliases.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.aliases)
}

// Load reads a table from path. Files ending in .yml or .yaml are parsed
// as YAML, everything else as tab-separated lines.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening venue table: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return ParseYAML(f)
	default:
		return ParseTSV(f)
	}
}

// separator splits a TSV line on a tab or a run of four spaces, which is
// what editors tend to turn tabs into.
var separator = regexp.MustCompile(`\t| {4}`)

// ParseTSV reads "alias<TAB>canonical" lines. Blank lines, lines starting
// with '#' and lines without exactly two fields are skipped.
func ParseTSV(r io.Reader) (*Table, error) {
	t := New()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := separator.Split(line, -1)
		var items []string
		for _, f := range fields {
			if f = strings.TrimSpace(f); f != "" {
				items = append(items, f)
			}
		}
		if len(items) != 2 {
			continue
		}
		t.Add(items[0], items[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading venue table: %w", err)
	}
	return t, nil
}

// ParseYAML reads a mapping of canonical label to aliases. A canonical
// label may map to a single alias string, a list, or nothing.
func ParseYAML(r io.Reader) (*Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return New(), nil
		}
		return nil, fmt.Errorf("parsing venue table: %w", err)
	}
	if len(doc.Content) == 0 {
		return New(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing venue table: line %d: expected a mapping", root.Line)
	}

	// Walk the node pairs instead of decoding into a map so that table
	// order survives.
	t := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		canonical := key.Value
		t.Add("", canonical)

		var aliases []string
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Tag != "!!null" {
				aliases = []string{val.Value}
			}
		case yaml.SequenceNode:
			if err := val.Decode(&aliases); err != nil {
				return nil, fmt.Errorf("parsing venue table: line %d: %w", val.Line, err)
			}
		default:
			return nil, fmt.Errorf("parsing venue table: line %d: aliases of %q must be a string or list", val.Line, canonical)
		}
		for _, a := range aliases {
			t.Add(a, canonical)
		}
	}
	return t, nil
}

func normalize(s string) string {
	return catalog.NormalizeLabel(catalog.KindVenue, s)
}
