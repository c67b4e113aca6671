package catalog

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// registry interns entities of one kind by normalized label.
type registry struct {
	kind     Kind
	entities map[string]*Entity
	log      zerolog.Logger
	// owning catalog's lock, shared with every entity created here
	mu *sync.RWMutex

	// venue display indexes, kept after eviction so a label that comes
	// back gets the same index
	indexes   map[string]int
	nextIndex int
}

func newRegistry(kind Kind, log zerolog.Logger) *registry {
	r := &registry{
		kind:     kind,
		entities: make(map[string]*Entity),
		log:      log,
	}
	if kind == KindVenue {
		r.indexes = make(map[string]int)
		r.nextIndex = 1
	}
	return r
}

// resolve returns the registered entity for raw, or a new unregistered one.
func (r *registry) resolve(raw string) *Entity {
	label := NormalizeLabel(r.kind, raw)
	if e, ok := r.entities[label]; ok {
		return e
	}
	e := newEntity(r.kind, label)
	e.mu = r.mu
	return e
}

func (r *registry) lookup(raw string) (*Entity, bool) {
	e, ok := r.entities[NormalizeLabel(r.kind, raw)]
	return e, ok
}

// match resolves a query term to entities. An exact label hit wins; only
// without one does fuzzy mode fall back to mutual containment.
func (r *registry) match(query string, fuzzy bool) []*Entity {
	label := NormalizeLabel(r.kind, query)
	if label == "" {
		return nil
	}
	if e, ok := r.entities[label]; ok {
		return []*Entity{e}
	}
	if !fuzzy {
		return nil
	}
	var out []*Entity
	for _, candidate := range r.sorted() {
		if mutuallyContains(label, candidate.label) {
			out = append(out, candidate)
		}
	}
	return out
}

// attach adds id to the entity's backing set, registering the entity on
// its first reference. If another entity already holds the label, that
// one is used instead and returned, so a label never maps to two entities.
func (r *registry) attach(e *Entity, id ID) *Entity {
	if existing, ok := r.entities[e.label]; ok && existing != e {
		e = existing
	}
	if _, ok := r.entities[e.label]; !ok {
		r.entities[e.label] = e
		r.assignIndex(e)
		r.log.Debug().Str("kind", r.kind.String()).Str("label", e.label).Msg("entity registered")
	}
	e.ids.Add(uint32(id))
	return e
}

// detach removes id from the backing set and evicts the entity when the
// set becomes empty. Reports whether the entity was evicted.
func (r *registry) detach(e *Entity, id ID) bool {
	e.ids.Remove(uint32(id))
	if !e.ids.IsEmpty() {
		return false
	}
	if r.entities[e.label] == e {
		delete(r.entities, e.label)
		r.log.Debug().Str("kind", r.kind.String()).Str("label", e.label).Msg("entity evicted")
	}
	return true
}

func (r *registry) assignIndex(e *Entity) {
	if r.indexes == nil {
		return
	}
	if idx, ok := r.indexes[e.label]; ok {
		e.index = idx
		return
	}
	e.index = r.nextIndex
	r.indexes[e.label] = e.index
	r.nextIndex++
}

// reserveIndex pins a display index for a venue label before it is referenced.
func (r *registry) reserveIndex(label string, idx int) {
	if r.indexes == nil {
		return
	}
	r.indexes[label] = idx
	if idx >= r.nextIndex {
		r.nextIndex = idx + 1
	}
	if e, ok := r.entities[label]; ok {
		e.index = idx
	}
}

func (r *registry) sorted() []*Entity {
	out := make([]*Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].label < out[j].label })
	return out
}

func (r *registry) labels() []string {
	out := make([]string, 0, len(r.entities))
	for label := range r.entities {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
