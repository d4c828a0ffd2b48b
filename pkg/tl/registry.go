package tl

import (
	"fmt"
	"sort"
	"sync"
)

// DecodeFunc reads one entity's bare layout from the decoder.
type DecodeFunc func(d *Decoder) (Object, error)

// Registry maps constructor ids to decode functions. Generated code fills
// one registry per schema at init time; decoding a base-type value peeks the
// next id and dispatches through it.
type Registry struct {
	mu       sync.RWMutex
	decoders map[uint32]DecodeFunc
	names    map[uint32]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[uint32]DecodeFunc),
		names:    make(map[uint32]string),
	}
}

// Register adds a decoder for one constructor id. Duplicate ids return an
// error: ids are unique across an entire schema.
func (r *Registry) Register(id uint32, name string, fn DecodeFunc) error {
	if fn == nil {
		return fmt.Errorf("tl: decoder for 0x%08x is required", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, exists := r.names[id]; exists {
		return fmt.Errorf("tl: constructor 0x%08x already registered as %s", id, prev)
	}
	r.decoders[id] = fn
	r.names[id] = name
	return nil
}

// MustRegister panics on registration failure. Generated init code uses it.
func (r *Registry) MustRegister(id uint32, name string, fn DecodeFunc) {
	if err := r.Register(id, name, fn); err != nil {
		panic(err)
	}
}

// Has reports whether a constructor id is known.
func (r *Registry) Has(id uint32) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.decoders[id]
	return ok
}

// Name returns the qualified schema name registered for an id.
func (r *Registry) Name(id uint32) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.names[id]
	return name, ok
}

// IDs returns every registered constructor id in ascending order.
func (r *Registry) IDs() []uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint32, 0, len(r.decoders))
	for id := range r.decoders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Object decodes one boxed value: the next id is peeked, matched against the
// registry, and the winning decoder consumes the id plus the bare layout. An
// unrecognized id returns UnknownConstructorError with the cursor still on
// the id.
func (r *Registry) Object(d *Decoder) (Object, error) {
	id, err := d.PeekID()
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	fn, ok := r.decoders[id]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownConstructorError{ID: id, Offset: d.Offset()}
	}

	// Consume the id only once dispatch succeeded.
	if _, err := d.Uint32(); err != nil {
		return nil, err
	}
	return fn(d)
}
