package catalog

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// CombineMode selects how the backing sets of several entities matched
// within one facet are combined.
type CombineMode uint8

const (
	// CombinePerTerm unions the entities matched by one query term and
	// intersects across the terms of the same facet.
	CombinePerTerm CombineMode = iota
	// CombineLiteral intersects the backing sets of every matched entity,
	// even when a single fuzzy term matched several of them.
	CombineLiteral
)

// Query is a partially filled paper. Zero-valued fields impose no constraint.
type Query struct {
	Title    string   `json:"title,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Venue    string   `json:"venue,omitempty"`
	Year     int      `json:"year,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Datasets []string `json:"datasets,omitempty"`
	Projects []string `json:"projects,omitempty"`
}

// SearchOptions tunes Find.
type SearchOptions struct {
	Fuzzy      bool
	YearWindow int
	// Within restricts results to these ids. Nil means no restriction.
	Within  []ID
	Combine CombineMode
}

// facet is one facet's match set; inactive facets are transparent.
type facet struct {
	ids    *roaring.Bitmap
	active bool
}

// and folds next into f: two active facets intersect, an inactive side
// leaves the other unchanged.
func (f facet) and(next facet) facet {
	switch {
	case f.active && next.active:
		return facet{ids: roaring.And(f.ids, next.ids), active: true}
	case next.active:
		return next
	default:
		return f
	}
}

// Find returns the ids of papers matching every specified facet of q,
// in ascending order. A query with no specified facet matches nothing.
func (c *Catalog) Find(q Query, opts SearchOptions) []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var universe *roaring.Bitmap
	if opts.Within != nil {
		universe = bitmapOf(opts.Within)
	}

	acc := facet{}
	acc = acc.and(c.titleFacet(q.Title, opts.Fuzzy, universe))
	acc = acc.and(c.venueFacet(q.Venue, opts))
	acc = acc.and(c.yearFacet(q.Year, opts.YearWindow))
	acc = acc.and(c.categoryFacet(KindAuthor, q.Authors, opts))
	acc = acc.and(c.categoryFacet(KindTag, q.Tags, opts))
	acc = acc.and(c.categoryFacet(KindDataset, q.Datasets, opts))
	acc = acc.and(c.categoryFacet(KindProject, q.Projects, opts))

	if !acc.active {
		return []ID{}
	}
	result := acc.ids
	if universe != nil {
		result = roaring.And(result, universe)
	}
	return toIDs(result)
}

func (c *Catalog) titleFacet(title string, fuzzy bool, universe *roaring.Bitmap) facet {
	t := NormalizeTitle(title)
	if t == "" {
		return facet{}
	}
	ids := roaring.New()
	for id, p := range c.papers {
		if universe != nil && !universe.Contains(uint32(id)) {
			continue
		}
		if titleMatches(t, p.Citation.Title, fuzzy) {
			ids.Add(uint32(id))
		}
	}
	return facet{ids: ids, active: true}
}

func titleMatches(query, title string, fuzzy bool) bool {
	if !fuzzy {
		return query == title
	}
	return mutuallyContains(query, title)
}

// venueFacet matches a registered venue when its label equals the query
// or is contained in it, even outside fuzzy mode; fuzzy mode also accepts
// the query being contained in the label. The default venue never
// constrains a query.
func (c *Catalog) venueFacet(venue string, opts SearchOptions) facet {
	v := foldSpace(venue)
	if v == "" || v == DefaultVenue {
		return facet{}
	}
	var matched []*Entity
	for _, e := range c.registries[KindVenue].sorted() {
		// Skipped even when the query contains it ("others workshop"):
		// papers without a venue never satisfy a venue query.
		if e.label == DefaultVenue {
			continue
		}
		if e.label == v || strings.Contains(v, e.label) {
			matched = append(matched, e)
		} else if opts.Fuzzy && mutuallyContains(v, e.label) {
			matched = append(matched, e)
		}
	}
	return facet{ids: combine([][]*Entity{matched}, opts.Combine), active: true}
}

// yearFacet unions the buckets of year-window … year+window.
func (c *Catalog) yearFacet(year, window int) facet {
	if year <= SentinelYear {
		return facet{}
	}
	if window < 0 {
		window = 0
	}
	ids := roaring.New()
	for y := year - window; y <= year+window; y++ {
		if b, ok := c.years[y]; ok {
			ids.Or(b)
		}
	}
	return facet{ids: ids, active: true}
}

func (c *Catalog) categoryFacet(kind Kind, terms []string, opts SearchOptions) facet {
	reg := c.registries[kind]
	var perTerm [][]*Entity
	for _, t := range terms {
		if NormalizeLabel(kind, t) == "" {
			continue
		}
		perTerm = append(perTerm, reg.match(t, opts.Fuzzy))
	}
	if len(perTerm) == 0 {
		return facet{}
	}
	return facet{ids: combine(perTerm, opts.Combine), active: true}
}

// combine merges the backing sets of the entities matched by each term.
func combine(perTerm [][]*Entity, mode CombineMode) *roaring.Bitmap {
	if mode == CombineLiteral {
		var all []*roaring.Bitmap
		for _, matched := range perTerm {
			for _, e := range matched {
				all = append(all, e.ids)
			}
		}
		if len(all) == 0 {
			return roaring.New()
		}
		return roaring.FastAnd(all...)
	}

	var result *roaring.Bitmap
	for _, matched := range perTerm {
		sets := make([]*roaring.Bitmap, len(matched))
		for i, e := range matched {
			sets[i] = e.ids
		}
		termIDs := roaring.FastOr(sets...)
		if result == nil {
			result = termIDs
		} else {
			result.And(termIDs)
		}
	}
	if result == nil {
		return roaring.New()
	}
	return result
}

// ByYear returns the ids of papers published in year.
func (c *Catalog) ByYear(year int) []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return toIDs(c.years[year])
}

// ByRating returns the ids of papers with the given rating.
func (c *Catalog) ByRating(rating int) []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return toIDs(c.ratings[rating])
}

// ByEntity returns the ids of papers referencing the labelled entity.
func (c *Catalog) ByEntity(kind Kind, label string) []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.registries[kind].lookup(label)
	if !ok {
		return nil
	}
	return toIDs(e.ids)
}

// Unread returns the ids of papers not marked read.
func (c *Catalog) Unread() []ID {
	return c.scan(func(p *Paper) bool { return !p.Read })
}

// WithCode returns the ids of papers whose authors released code.
func (c *Catalog) WithCode() []ID {
	return c.scan(func(p *Paper) bool { return p.Code })
}

func (c *Catalog) scan(keep func(*Paper) bool) []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := roaring.New()
	for id, p := range c.papers {
		if keep(p) {
			ids.Add(uint32(id))
		}
	}
	return toIDs(ids)
}
