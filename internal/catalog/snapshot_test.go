package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populated(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	c.ReserveVenues([]string{"NeurIPS", "ICML"})
	c.Insert(attention())
	gone := c.Insert(Draft{Title: "to be removed", Venue: "ACL"})
	c.Insert(Draft{
		Title:    "BERT",
		Authors:  []string{"Devlin, Jacob", "Vaswani, A"},
		Venue:    "NAACL",
		Year:     2019,
		Raw:      "Devlin et al. BERT. NAACL 2019.",
		Type:     Journal,
		Tags:     []string{"nlp", "pretraining"},
		Datasets: []string{"glue"},
		Projects: []string{"thesis"},
		Comment:  "read twice",
		Rating:   4,
		Read:     true,
		Code:     true,
	})
	require.True(t, c.Remove(gone))
	return c
}

func TestSnapshot_RoundTrip(t *testing.T) {
	c := populated(t)
	s := c.Snapshot()

	restored, err := Restore(s)
	require.NoError(t, err)
	checkIntegrity(t, restored)

	assert.Equal(t, s, restored.Snapshot())
	assert.Equal(t, c.IDs(), restored.IDs())
	assert.Equal(t, c.Venues(), restored.Venues())
	for _, k := range Kinds {
		assert.Equal(t, c.Labels(k), restored.Labels(k), k.String())
	}

	// Queries agree.
	q := Query{Authors: []string{"vaswani"}}
	opts := SearchOptions{Fuzzy: true}
	assert.Equal(t, c.Find(q, opts), restored.Find(q, opts))

	// Sharing is rebuilt: both papers hold the same author entity.
	ids := restored.ByEntity(KindAuthor, "vaswani, a")
	require.Len(t, ids, 2)
	p0, _ := restored.Get(ids[0])
	p1, _ := restored.Get(ids[1])
	assert.Same(t, p0.Citation.Authors[0], p1.Citation.Authors[1])
}

func TestSnapshot_RestoredPoolReusesFreedID(t *testing.T) {
	c := populated(t)
	s := c.Snapshot()
	require.Equal(t, []ID{1}, s.FreeIDs)

	restored, err := Restore(s)
	require.NoError(t, err)
	assert.Equal(t, ID(1), restored.Insert(Draft{Title: "new"}))
	assert.Equal(t, ID(3), restored.Insert(Draft{Title: "newer"}))
}

func TestSnapshot_VenueIndexesSurviveRestore(t *testing.T) {
	c := populated(t)
	restored, err := Restore(c.Snapshot())
	require.NoError(t, err)

	// ACL was evicted before the snapshot; its index is still reserved.
	restored.Insert(Draft{Title: "x", Venue: "ACL"})
	e, ok := restored.Lookup(KindVenue, "acl")
	require.True(t, ok)
	assert.Equal(t, 3, e.Index())

	e, _ = restored.Lookup(KindVenue, "naacl")
	assert.Equal(t, 4, e.Index())
}

func TestSnapshot_JSONHeader(t *testing.T) {
	s := populated(t).Snapshot()
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var back Snapshot
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s.Version, back.Version)
	assert.Equal(t, s.NextID, back.NextID)
	assert.Equal(t, s.FreeIDs, back.FreeIDs)
	assert.Equal(t, s.VenueIndexes, back.VenueIndexes)
	assert.Empty(t, back.Papers, "records are written separately")
}

func TestRestore_Rejects(t *testing.T) {
	tests := []struct {
		name string
		snap *Snapshot
	}{
		{"nil", nil},
		{"wrong version", &Snapshot{Version: 99}},
		{"free id beyond watermark", &Snapshot{Version: SnapshotVersion, NextID: 2, FreeIDs: []ID{5}}},
		{"record not issued", &Snapshot{Version: SnapshotVersion, NextID: 1, Papers: []Record{{ID: 3, Draft: Draft{Title: "x"}}}}},
		{"record on a free id", &Snapshot{Version: SnapshotVersion, NextID: 2, FreeIDs: []ID{0}, Papers: []Record{{ID: 0, Draft: Draft{Title: "x"}}}}},
		{"repeated record", &Snapshot{Version: SnapshotVersion, NextID: 1, Papers: []Record{{ID: 0, Draft: Draft{Title: "x"}}, {ID: 0, Draft: Draft{Title: "y"}}}}},
		{"issued id without record", &Snapshot{Version: SnapshotVersion, NextID: 2, Papers: []Record{{ID: 0, Draft: Draft{Title: "x"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(tt.snap)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}

func TestRestore_Empty(t *testing.T) {
	c, err := Restore(New().Snapshot())
	require.NoError(t, err)
	assert.Zero(t, c.Len())
	assert.Equal(t, ID(0), c.Insert(Draft{Title: "first"}))
}
