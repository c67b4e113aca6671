package catalog

import "github.com/RoaringBitmap/roaring/v2"

// ID identifies a live paper record.
type ID uint32

// idPool hands out record identifiers and recycles the ones freed by removal.
// Every value below next is either assigned to a live record or held in free.
type idPool struct {
	next ID
	free *roaring.Bitmap
}

func newIDPool() *idPool {
	return &idPool{free: roaring.New()}
}

// allocate returns the smallest freed id, or advances the watermark.
func (p *idPool) allocate() ID {
	if !p.free.IsEmpty() {
		id := p.free.Minimum()
		p.free.Remove(id)
		return ID(id)
	}
	id := p.next
	p.next++
	return id
}

func (p *idPool) release(id ID) {
	p.free.Add(uint32(id))
}

// issued reports whether id is currently handed out.
func (p *idPool) issued(id ID) bool {
	return id < p.next && !p.free.Contains(uint32(id))
}

func (p *idPool) live() int {
	return int(uint64(p.next) - p.free.GetCardinality())
}

func (p *idPool) freeIDs() []ID {
	return toIDs(p.free)
}

func toIDs(b *roaring.Bitmap) []ID {
	if b == nil {
		return nil
	}
	out := make([]ID, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		out = append(out, ID(it.Next()))
	}
	return out
}

func bitmapOf(ids []ID) *roaring.Bitmap {
	b := roaring.New()
	for _, id := range ids {
		b.Add(uint32(id))
	}
	return b
}
