package catalog

import (
	"fmt"
)

// SnapshotVersion is the current snapshot layout version.
const SnapshotVersion = 1

// Snapshot is a self-contained copy of catalog state. Restoring it
// rebuilds the identifier pool, entity sharing and every index.
type Snapshot struct {
	Version      int            `json:"version"`
	NextID       ID             `json:"next_id"`
	FreeIDs      []ID           `json:"free_ids,omitempty"`
	VenueIndexes map[string]int `json:"venue_indexes,omitempty"`
	Papers       []Record       `json:"-"`
}

// Record is the stored form of one paper.
type Record struct {
	ID ID `json:"id"`
	Draft
}

// Snapshot captures the catalog state. Records are ordered by id.
func (c *Catalog) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := &Snapshot{
		Version: SnapshotVersion,
		NextID:  c.pool.next,
	}
	if free := c.pool.freeIDs(); len(free) > 0 {
		s.FreeIDs = free
	}
	if venues := c.registries[KindVenue]; len(venues.indexes) > 0 {
		s.VenueIndexes = make(map[string]int, len(venues.indexes))
		for label, idx := range venues.indexes {
			s.VenueIndexes[label] = idx
		}
	}
	for _, id := range c.sortedIDs() {
		s.Papers = append(s.Papers, Record{ID: id, Draft: c.papers[id].Draft()})
	}
	return s
}

// Restore builds a catalog from a snapshot.
func Restore(s *Snapshot, opts ...Option) (*Catalog, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrCorruptSnapshot)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, s.Version)
	}

	c := New(opts...)
	c.pool.next = s.NextID
	c.pool.free = bitmapOf(s.FreeIDs)
	for _, id := range s.FreeIDs {
		if id >= s.NextID {
			return nil, fmt.Errorf("%w: free id %d beyond watermark %d", ErrCorruptSnapshot, id, s.NextID)
		}
	}

	venues := c.registries[KindVenue]
	for label, idx := range s.VenueIndexes {
		venues.reserveIndex(label, idx)
	}

	for _, r := range s.Papers {
		if !c.pool.issued(r.ID) {
			return nil, fmt.Errorf("%w: paper id %d not issued by the pool", ErrCorruptSnapshot, r.ID)
		}
		if _, dup := c.papers[r.ID]; dup {
			return nil, fmt.Errorf("%w: paper id %d appears twice", ErrCorruptSnapshot, r.ID)
		}
		c.insertAt(r.ID, r.Draft)
	}
	if live := c.pool.live(); live != len(c.papers) {
		return nil, fmt.Errorf("%w: pool has %d live ids but %d papers", ErrCorruptSnapshot, live, len(c.papers))
	}
	return c, nil
}
