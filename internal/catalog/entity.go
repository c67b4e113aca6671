package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/jialunli-sysu/cloudPapers/internal/author"
)

// Kind names a category facet.
type Kind uint8

const (
	KindAuthor Kind = iota
	KindVenue
	KindTag
	KindDataset
	KindProject
)

// Kinds lists every category kind in enumeration order.
var Kinds = []Kind{KindAuthor, KindVenue, KindTag, KindDataset, KindProject}

func (k Kind) String() string {
	switch k {
	case KindAuthor:
		return "author"
	case KindVenue:
		return "venue"
	case KindTag:
		return "tag"
	case KindDataset:
		return "dataset"
	case KindProject:
		return "project"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind accepts the facet names used on the command line.
// "conference" and "journal" are accepted as venue aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "author", "authors":
		return KindAuthor, nil
	case "venue", "venues", "conference", "journal":
		return KindVenue, nil
	case "tag", "tags":
		return KindTag, nil
	case "dataset", "datasets":
		return KindDataset, nil
	case "project", "projects":
		return KindProject, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Entity is an interned author, venue, tag, dataset or project.
// The set of records referencing it doubles as its reference count:
// once the set is empty the entity is dropped from its registry.
//
// Entities handed out by a Catalog share its lock, so the accessors
// below may be called while other goroutines mutate the catalog.
type Entity struct {
	kind  Kind
	label string

	// authors only
	first, last string
	// venues only; stable across eviction and restore
	index int

	ids *roaring.Bitmap
	mu  *sync.RWMutex
}

func newEntity(kind Kind, label string) *Entity {
	e := &Entity{kind: kind, label: label, ids: roaring.New()}
	if kind == KindAuthor {
		n := author.ParseName(label)
		e.first, e.last = n.First, n.Last
	}
	return e
}

// Kind returns the facet the entity belongs to.
func (e *Entity) Kind() Kind { return e.kind }

// Label returns the normalized label.
func (e *Entity) Label() string { return e.label }

// Name returns the parsed first and last name of an author entity.
func (e *Entity) Name() (first, last string) { return e.first, e.last }

// Index returns the display index of a venue entity (0 for other kinds).
func (e *Entity) Index() int {
	defer e.rlock()()
	return e.index
}

// IDs returns the referencing record ids in ascending order.
func (e *Entity) IDs() []ID {
	defer e.rlock()()
	return toIDs(e.ids)
}

// Len returns the number of referencing records.
func (e *Entity) Len() int {
	defer e.rlock()()
	return e.count()
}

// Has reports whether record id references the entity.
func (e *Entity) Has(id ID) bool {
	defer e.rlock()()
	return e.ids.Contains(uint32(id))
}

func (e *Entity) count() int { return int(e.ids.GetCardinality()) }

// rlock read-locks the owning catalog, if any, and returns the unlock.
func (e *Entity) rlock() func() {
	if e.mu == nil {
		return func() {}
	}
	e.mu.RLock()
	return e.mu.RUnlock
}

func (e *Entity) String() string { return e.label }

// NormalizeLabel folds a raw category string into the label used for
// interning. Author names are rewritten to "last, first".
func NormalizeLabel(kind Kind, raw string) string {
	s := foldSpace(raw)
	if kind == KindAuthor {
		return author.ParseName(s).Label()
	}
	return s
}

func foldSpace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// mutuallyContains is the fuzzy predicate: either string contains the other.
func mutuallyContains(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
