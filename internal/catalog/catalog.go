// Package catalog is the in-memory paper catalog: a record store, one
// interning registry per category kind, year and rating buckets, and the
// query engine over them.
//
// All mutations go through Insert, Remove and Revise, which keep every
// index consistent with the record store. A Catalog is safe for
// concurrent use: writers are serialized and never observed half-applied,
// and the accessors of entities it hands out take the same read lock.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog"
)

// Catalog owns the paper records and every index over them.
type Catalog struct {
	mu sync.RWMutex

	papers     map[ID]*Paper
	pool       *idPool
	registries map[Kind]*registry
	years      map[int]*roaring.Bitmap
	ratings    map[int]*roaring.Bitmap

	log zerolog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

// New returns an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		papers:  make(map[ID]*Paper),
		pool:    newIDPool(),
		years:   make(map[int]*roaring.Bitmap),
		ratings: make(map[int]*roaring.Bitmap),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.registries = make(map[Kind]*registry, len(Kinds))
	for _, k := range Kinds {
		c.registries[k] = newRegistry(k, c.log)
		c.registries[k].mu = &c.mu
	}
	return c
}

// Insert stores a new paper and returns its id. The draft is assumed to
// have passed Validate; out-of-range years and ratings are clamped.
func (c *Catalog) Insert(d Draft) ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.pool.allocate()
	c.insertAt(id, d)
	c.log.Debug().Uint32("id", uint32(id)).Msg("paper inserted")
	return id
}

func (c *Catalog) insertAt(id ID, d Draft) {
	p := c.build(d)
	p.ID = id

	p.Citation.Venue = c.registries[KindVenue].attach(p.Citation.Venue, id)
	p.Citation.Authors = c.attachAll(KindAuthor, p.Citation.Authors, id)
	p.Tags = c.attachAll(KindTag, p.Tags, id)
	p.Datasets = c.attachAll(KindDataset, p.Datasets, id)
	p.Projects = c.attachAll(KindProject, p.Projects, id)
	addToBucket(c.years, p.Citation.Year, id)
	addToBucket(c.ratings, p.Rating, id)

	c.papers[id] = p
}

// Remove deletes a paper and releases its id. Removing an unknown id is a
// no-op and reports false.
func (c *Catalog) Remove(id ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.papers[id]
	if !ok {
		return false
	}

	c.registries[KindVenue].detach(p.Citation.Venue, id)
	c.detachAll(KindAuthor, p.Citation.Authors, id)
	c.detachAll(KindTag, p.Tags, id)
	c.detachAll(KindDataset, p.Datasets, id)
	c.detachAll(KindProject, p.Projects, id)
	removeFromBucket(c.years, p.Citation.Year, id)
	removeFromBucket(c.ratings, p.Rating, id)

	delete(c.papers, id)
	c.pool.release(id)
	c.log.Debug().Uint32("id", uint32(id)).Msg("paper removed")
	return true
}

// Revise replaces the fields of paper id with those of d, touching only
// the indexes whose values changed. Category entities shared by the old
// and new values keep their membership untouched.
func (c *Catalog) Revise(id ID, d Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.papers[id]
	if !ok {
		return fmt.Errorf("revising paper %d: %w", id, ErrNotFound)
	}
	next := c.build(d)

	p.Citation.Title = next.Citation.Title
	p.Citation.Raw = next.Citation.Raw
	p.Citation.Type = next.Citation.Type
	p.Path = next.Path
	p.Comment = next.Comment
	p.Read = next.Read
	p.Code = next.Code

	if p.Citation.Year != next.Citation.Year {
		removeFromBucket(c.years, p.Citation.Year, id)
		addToBucket(c.years, next.Citation.Year, id)
		p.Citation.Year = next.Citation.Year
	}
	if p.Rating != next.Rating {
		removeFromBucket(c.ratings, p.Rating, id)
		addToBucket(c.ratings, next.Rating, id)
		p.Rating = next.Rating
	}

	if p.Citation.Venue.label != next.Citation.Venue.label {
		venues := c.registries[KindVenue]
		venues.detach(p.Citation.Venue, id)
		p.Citation.Venue = venues.attach(next.Citation.Venue, id)
	}

	p.Citation.Authors = c.reviseSet(KindAuthor, id, p.Citation.Authors, next.Citation.Authors)
	p.Tags = c.reviseSet(KindTag, id, p.Tags, next.Tags)
	p.Datasets = c.reviseSet(KindDataset, id, p.Datasets, next.Datasets)
	p.Projects = c.reviseSet(KindProject, id, p.Projects, next.Projects)

	c.log.Debug().Uint32("id", uint32(id)).Msg("paper revised")
	return nil
}

// reviseSet adds id to every entity of next, then drops it from the
// entities of prev that next no longer names.
func (c *Catalog) reviseSet(kind Kind, id ID, prev, next []*Entity) []*Entity {
	reg := c.registries[kind]
	keep := make(map[string]struct{}, len(next))
	out := make([]*Entity, 0, len(next))
	for _, e := range next {
		out = append(out, reg.attach(e, id))
		keep[e.label] = struct{}{}
	}
	for _, e := range prev {
		if _, ok := keep[e.label]; !ok {
			reg.detach(e, id)
		}
	}
	return out
}

func (c *Catalog) attachAll(kind Kind, es []*Entity, id ID) []*Entity {
	reg := c.registries[kind]
	for i, e := range es {
		es[i] = reg.attach(e, id)
	}
	return es
}

func (c *Catalog) detachAll(kind Kind, es []*Entity, id ID) {
	reg := c.registries[kind]
	for _, e := range es {
		reg.detach(e, id)
	}
}

// build normalizes a draft into an unlinked record. Category strings are
// resolved to registered entities where they exist, fresh ones otherwise.
func (c *Catalog) build(d Draft) *Paper {
	venue := foldSpace(d.Venue)
	if venue == "" {
		venue = DefaultVenue
	}
	return &Paper{
		Citation: Citation{
			Title:   NormalizeTitle(d.Title),
			Authors: c.resolveAll(KindAuthor, d.Authors),
			Venue:   c.registries[KindVenue].resolve(venue),
			Year:    NormalizeYear(d.Year),
			Raw:     d.Raw,
			Type:    d.Type,
		},
		Path:     NormalizePath(d.Path),
		Tags:     c.resolveAll(KindTag, d.Tags),
		Datasets: c.resolveAll(KindDataset, d.Datasets),
		Projects: c.resolveAll(KindProject, d.Projects),
		Comment:  d.Comment,
		Rating:   normalizeRating(d.Rating),
		Read:     d.Read,
		Code:     d.Code,
	}
}

// resolveAll resolves raw labels in order, dropping empties and repeats.
func (c *Catalog) resolveAll(kind Kind, raw []string) []*Entity {
	reg := c.registries[kind]
	seen := make(map[string]struct{}, len(raw))
	var out []*Entity
	for _, r := range raw {
		e := reg.resolve(r)
		if e.label == "" {
			continue
		}
		if _, dup := seen[e.label]; dup {
			continue
		}
		seen[e.label] = struct{}{}
		out = append(out, e)
	}
	return out
}

// FindDuplicate returns the first record, in id order, with the same
// normalized path or the same title as d.
func (c *Catalog) FindDuplicate(d Draft) (ID, bool) {
	id, _, ok := c.findDuplicate(d, nil)
	return id, ok
}

// CheckDuplicate returns a *DuplicateError when d duplicates a record
// other than the ones listed in except.
func (c *Catalog) CheckDuplicate(d Draft, except ...ID) error {
	skip := make(map[ID]bool, len(except))
	for _, id := range except {
		skip[id] = true
	}
	id, reason, ok := c.findDuplicate(d, skip)
	if !ok {
		return nil
	}
	return &DuplicateError{ID: id, Reason: reason}
}

func (c *Catalog) findDuplicate(d Draft, skip map[ID]bool) (ID, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := NormalizePath(d.Path)
	title := NormalizeTitle(d.Title)
	for _, id := range c.sortedIDs() {
		if skip[id] {
			continue
		}
		p := c.papers[id]
		if path != "" && p.Path == path {
			return id, "path", true
		}
		if title != "" && p.Citation.Title == title {
			return id, "title", true
		}
	}
	return 0, "", false
}

// Get returns a copy of the record. Entity pointers are shared; their
// accessors lock the catalog.
func (c *Catalog) Get(id ID) (Paper, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.papers[id]
	if !ok {
		return Paper{}, false
	}
	return p.clone(), true
}

// Len returns the number of live records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.papers)
}

// IDs returns every live id in ascending order.
func (c *Catalog) IDs() []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedIDs()
}

func (c *Catalog) sortedIDs() []ID {
	ids := make([]ID, 0, len(c.papers))
	for id := range c.papers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup returns the registered entity for a label.
func (c *Catalog) Lookup(kind Kind, label string) (*Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registries[kind].lookup(label)
}

// Labels returns the registered labels of a kind in sorted order.
func (c *Catalog) Labels(kind Kind) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registries[kind].labels()
}

// Venues returns the registered venues ordered by display index.
func (c *Catalog) Venues() []VenueInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	es := c.registries[KindVenue].sorted()
	out := make([]VenueInfo, len(es))
	for i, e := range es {
		out[i] = VenueInfo{Label: e.label, Index: e.index, Papers: e.count()}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// VenueInfo is the enumeration view of a venue entity.
type VenueInfo struct {
	Label  string `json:"label"`
	Index  int    `json:"index"`
	Papers int    `json:"papers"`
}

// ReserveVenues gives each label a display index, in order, unless it
// already has one. Used to keep canonical venues in table order.
func (c *Catalog) ReserveVenues(labels []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg := c.registries[KindVenue]
	for _, l := range labels {
		label := foldSpace(l)
		if label == "" {
			continue
		}
		if _, ok := reg.indexes[label]; ok {
			continue
		}
		reg.reserveIndex(label, reg.nextIndex)
	}
}

// Years returns the years present in the catalog, ascending.
func (c *Catalog) Years() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return bucketKeys(c.years)
}

// Ratings returns the ratings present in the catalog, ascending.
func (c *Catalog) Ratings() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return bucketKeys(c.ratings)
}

// Row is the listing projection of a paper.
type Row struct {
	ID     ID     `json:"id"`
	Title  string `json:"title"`
	Venue  string `json:"venue"`
	Year   int    `json:"year"`
	Read   bool   `json:"read"`
	Rating int    `json:"rating"`
}

// Rows projects the given ids for listing. Unknown ids are skipped.
func (c *Catalog) Rows(ids []ID) []Row {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		p, ok := c.papers[id]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			ID:     id,
			Title:  p.Citation.Title,
			Venue:  p.VenueLabel(),
			Year:   p.Citation.Year,
			Read:   p.Read,
			Rating: p.Rating,
		})
	}
	return rows
}

// Progress counts how many of ids are live and marked read.
func (c *Catalog) Progress(ids []ID) (read, total int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range ids {
		p, ok := c.papers[id]
		if !ok {
			continue
		}
		total++
		if p.Read {
			read++
		}
	}
	return read, total
}

func addToBucket(buckets map[int]*roaring.Bitmap, key int, id ID) {
	b, ok := buckets[key]
	if !ok {
		b = roaring.New()
		buckets[key] = b
	}
	b.Add(uint32(id))
}

func removeFromBucket(buckets map[int]*roaring.Bitmap, key int, id ID) {
	b, ok := buckets[key]
	if !ok {
		return
	}
	b.Remove(uint32(id))
	if b.IsEmpty() {
		delete(buckets, key)
	}
}

func bucketKeys(buckets map[int]*roaring.Bitmap) []int {
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
