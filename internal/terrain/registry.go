package terrain

import "sync"

// Entry is a registered chunk and the tick it was last scanned.
type Entry struct {
	Chunk    *Chunk
	LastSeen uint64
}

// Registry stores chunks by coordinate.
type Registry struct {
	chunks   map[Coord]*Entry
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{chunks: make(map[Coord]*Entry)}
}

// Get returns the chunk at coord.
func (r *Registry) Get(coord Coord) (*Chunk, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.chunks[coord]
	if !ok {
		return nil, false
	}
	return e.Chunk, true
}

// Add registers chunk under its coordinate unless one is already there.
func (r *Registry) Add(chunk *Chunk, tick uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chunks[chunk.Coord]; ok {
		return false
	}
	r.chunks[chunk.Coord] = &Entry{Chunk: chunk, LastSeen: tick}
	r.modCount++
	return true
}

// Touch records that coord was scanned at tick.
func (r *Registry) Touch(coord Coord, tick uint64) {
	r.mu.Lock()
	if e, ok := r.chunks[coord]; ok {
		e.LastSeen = tick
	}
	r.mu.Unlock()
}

// Remove unregisters and returns the chunk at coord. The chunk is not closed.
func (r *Registry) Remove(coord Coord) (*Chunk, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.chunks[coord]
	if !ok {
		return nil, false
	}
	delete(r.chunks, coord)
	r.modCount++
	return e.Chunk, true
}

// Len returns the number of registered chunks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chunks)
}

// ModCount returns the current modification count of the chunk map.
func (r *Registry) ModCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modCount
}

// Entries returns a snapshot of every entry.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.chunks))
	for _, e := range r.chunks {
		out = append(out, *e)
	}
	return out
}

// Clear removes and returns every chunk.
func (r *Registry) Clear() []*Chunk {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Chunk, 0, len(r.chunks))
	for coord, e := range r.chunks {
		out = append(out, e.Chunk)
		delete(r.chunks, coord)
	}
	r.modCount++
	return out
}
