package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind_VenueThenRemove(t *testing.T) {
	c := New()
	id := c.Insert(attention())

	assert.Equal(t, []ID{id}, c.Find(Query{Venue: "NeurIPS"}, SearchOptions{}))

	c.Remove(id)
	assert.Empty(t, c.Find(Query{Venue: "NeurIPS"}, SearchOptions{}))
	assert.NotContains(t, c.Labels(KindVenue), "neurips")
}

func TestFind_NoFacetMatchesNothing(t *testing.T) {
	c := New()
	c.Insert(attention())

	got := c.Find(Query{}, SearchOptions{Fuzzy: true})
	require.NotNil(t, got)
	assert.Empty(t, got)

	// Sentinel year and default venue are not constraints either.
	assert.Empty(t, c.Find(Query{Year: SentinelYear, Venue: "others", Tags: []string{" "}}, SearchOptions{}))
}

func TestFind_YearWindow(t *testing.T) {
	c := New()
	byYear := map[int]ID{}
	for y := 2014; y <= 2019; y++ {
		byYear[y] = c.Insert(Draft{Title: "paper", Year: y})
	}

	tests := []struct {
		name   string
		year   int
		window int
		want   []int
	}{
		{"exact", 2017, 0, []int{2017}},
		{"window two", 2017, 2, []int{2015, 2016, 2017, 2018, 2019}},
		{"negative window is exact", 2017, -3, []int{2017}},
		{"edge", 2014, 1, []int{2014, 2015}},
		{"no papers", 2001, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := []ID{}
			for _, y := range tt.want {
				want = append(want, byYear[y])
			}
			got := c.Find(Query{Year: tt.year}, SearchOptions{YearWindow: tt.window})
			assert.Equal(t, want, got)
		})
	}
}

func TestFind_Title(t *testing.T) {
	c := New()
	a := c.Insert(Draft{Title: "Attention Is All You Need"})
	b := c.Insert(Draft{Title: "Attention"})

	assert.Equal(t, []ID{b}, c.Find(Query{Title: "ATTENTION"}, SearchOptions{}))
	assert.Equal(t, []ID{a, b}, c.Find(Query{Title: "attention"}, SearchOptions{Fuzzy: true}))
	// Query containing the stored title also matches in fuzzy mode.
	assert.Equal(t, []ID{b}, c.Find(Query{Title: "attention please"}, SearchOptions{Fuzzy: true}))
	assert.Empty(t, c.Find(Query{Title: "bert"}, SearchOptions{Fuzzy: true}))
}

func TestFind_VenueContainment(t *testing.T) {
	c := New()
	icml := c.Insert(Draft{Title: "a", Venue: "ICML"})
	c.Insert(Draft{Title: "b", Venue: "NeurIPS"})

	tests := []struct {
		name  string
		venue string
		fuzzy bool
		want  []ID
	}{
		{"exact label", "icml", false, []ID{icml}},
		{"label inside query without fuzzy", "ICML Workshop", false, []ID{icml}},
		{"query inside label needs fuzzy", "ic", false, []ID{}},
		{"query inside label with fuzzy", "ic", true, []ID{icml}},
		{"unknown venue", "CVPR", true, []ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Find(Query{Venue: tt.venue}, SearchOptions{Fuzzy: tt.fuzzy})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind_DefaultVenueNeverMatches(t *testing.T) {
	c := New()
	a := c.Insert(Draft{Title: "uncategorized"})
	b := c.Insert(Draft{Title: "uncategorized too", Venue: "ICML"})

	// "others workshop" contains "others" but the default venue is skipped,
	// in either mode, where plain label containment would match it.
	assert.Empty(t, c.Find(Query{Venue: "others workshop"}, SearchOptions{Fuzzy: true}))
	assert.Empty(t, c.Find(Query{Venue: "others workshop"}, SearchOptions{}))
	// A default-venue query leaves the title facet alone.
	assert.Equal(t, []ID{a, b}, c.Find(Query{Title: "uncategorized", Venue: "Others"}, SearchOptions{Fuzzy: true}))
}

func TestFind_Authors(t *testing.T) {
	c := New()
	john := c.Insert(Draft{Title: "a", Authors: []string{"John Smith"}})
	jane := c.Insert(Draft{Title: "b", Authors: []string{"Smith, Jane"}})
	both := c.Insert(Draft{Title: "c", Authors: []string{"Smith, John", "Jane Smith"}})

	tests := []struct {
		name    string
		authors []string
		opts    SearchOptions
		want    []ID
	}{
		{"exact label in either format", []string{"smith, john"}, SearchOptions{}, []ID{john, both}},
		{"exact miss without fuzzy", []string{"smith"}, SearchOptions{}, []ID{}},
		{"fuzzy term unions its matches", []string{"smith"}, SearchOptions{Fuzzy: true}, []ID{john, jane, both}},
		{"fuzzy literal intersects all matches", []string{"smith"}, SearchOptions{Fuzzy: true, Combine: CombineLiteral}, []ID{both}},
		{"terms intersect", []string{"John Smith", "Jane Smith"}, SearchOptions{}, []ID{both}},
		{"unknown term empties the facet", []string{"John Smith", "Nobody"}, SearchOptions{}, []ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Find(Query{Authors: tt.authors}, tt.opts))
		})
	}
}

func TestFind_ExactHitShortCircuitsFuzzy(t *testing.T) {
	c := New()
	nlp := c.Insert(Draft{Title: "a", Tags: []string{"nlp"}})
	c.Insert(Draft{Title: "b", Tags: []string{"nlp-theory"}})

	assert.Equal(t, []ID{nlp}, c.Find(Query{Tags: []string{"nlp"}}, SearchOptions{Fuzzy: true}))
}

func TestFind_FacetsIntersect(t *testing.T) {
	c := New()
	target := c.Insert(Draft{
		Title:    "Attention Is All You Need",
		Authors:  []string{"Vaswani, A"},
		Venue:    "NeurIPS",
		Year:     2017,
		Tags:     []string{"nlp"},
		Datasets: []string{"wmt14"},
		Projects: []string{"thesis"},
	})
	c.Insert(Draft{Title: "other", Venue: "NeurIPS", Year: 2017, Tags: []string{"nlp"}})
	c.Insert(Draft{Title: "third", Datasets: []string{"wmt14"}, Projects: []string{"thesis"}})

	q := Query{
		Title:    "attention",
		Authors:  []string{"vaswani"},
		Venue:    "neurips",
		Year:     2017,
		Tags:     []string{"nlp"},
		Datasets: []string{"wmt14"},
		Projects: []string{"thesis"},
	}
	assert.Equal(t, []ID{target}, c.Find(q, SearchOptions{Fuzzy: true}))
	assert.Empty(t, c.Find(q, SearchOptions{}), "exact title and author should miss")
}

func TestFind_Within(t *testing.T) {
	c := New()
	a := c.Insert(Draft{Title: "a", Tags: []string{"nlp"}})
	b := c.Insert(Draft{Title: "b", Tags: []string{"nlp"}})

	assert.Equal(t, []ID{b}, c.Find(Query{Tags: []string{"nlp"}}, SearchOptions{Within: []ID{b, 99}}))
	assert.Empty(t, c.Find(Query{Tags: []string{"nlp"}}, SearchOptions{Within: []ID{}}))
	assert.Equal(t, []ID{a, b}, c.Find(Query{Tags: []string{"nlp"}}, SearchOptions{}))
}

func TestFind_DoesNotMutateEntities(t *testing.T) {
	c := New()
	a := c.Insert(Draft{Title: "a", Authors: []string{"Smith, John"}, Tags: []string{"nlp"}})
	b := c.Insert(Draft{Title: "b", Authors: []string{"Smith, Jane"}, Tags: []string{"nlp"}})

	c.Find(Query{Authors: []string{"smith"}, Tags: []string{"nlp"}}, SearchOptions{Fuzzy: true, Combine: CombineLiteral})
	c.Find(Query{Authors: []string{"smith"}, Tags: []string{"nlp"}}, SearchOptions{Fuzzy: true})

	e, _ := c.Lookup(KindTag, "nlp")
	assert.Equal(t, []ID{a, b}, e.IDs())
	checkIntegrity(t, c)
}

func TestFilters(t *testing.T) {
	c := New()
	a := c.Insert(Draft{Title: "a", Year: 2017, Rating: 5, Read: true, Tags: []string{"nlp"}})
	b := c.Insert(Draft{Title: "b", Year: 2018, Code: true})

	assert.Equal(t, []ID{a}, c.ByYear(2017))
	assert.Empty(t, c.ByYear(2000))
	assert.Equal(t, []ID{a}, c.ByRating(5))
	assert.Equal(t, []ID{b}, c.ByRating(0))
	assert.Equal(t, []ID{a}, c.ByEntity(KindTag, "NLP"))
	assert.Empty(t, c.ByEntity(KindTag, "vision"))
	assert.Equal(t, []ID{a, b}, c.ByEntity(KindVenue, DefaultVenue))
	assert.Equal(t, []ID{b}, c.Unread())
	assert.Equal(t, []ID{b}, c.WithCode())
}
