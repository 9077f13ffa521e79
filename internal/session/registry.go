package session

import "sync"

// Registry is the authoritative mapping from connection identity to
// participant state. The session engine is the only writer; the RWMutex
// allows the REST handlers to take consistent read-only views from other
// goroutines.
type Registry struct {
	mu           sync.RWMutex
	participants map[string]*Participant
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*Participant),
	}
}

// Get returns the participant for a connection id, or nil if absent. The
// pointer is shared: callers may read the immutable fields (ID, Name, Color)
// but position writes go through UpdatePosition.
func (r *Registry) Get(id string) *Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.participants[id]
}

// Add inserts a participant keyed by its connection id. Returns false if an
// entry already exists; the first join wins.
func (r *Registry) Add(p *Participant) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[p.ID]; ok {
		return false
	}
	r.participants[p.ID] = p
	return true
}

// UpdatePosition overwrites a participant's position under the write lock,
// so concurrent readers never observe a torn coordinate pair. Returns false
// if the connection has no entry.
func (r *Registry) UpdatePosition(id string, x, y float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return false
	}
	p.X = x
	p.Y = y
	return true
}

// Remove deletes the entry for a connection id. Returns the removed
// participant, or nil if there was none (double disconnect is a no-op).
func (r *Registry) Remove(id string) *Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return nil
	}
	delete(r.participants, id)
	return p
}

// Len returns the number of joined participants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// Snapshot returns a value copy of the registry map, taken under the read
// lock. The copies stay coherent no matter what the session loop writes
// afterwards, so they are safe to marshal from any goroutine.
func (r *Registry) Snapshot() map[string]Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Participant, len(r.participants))
	for id, p := range r.participants {
		out[id] = *p
	}
	return out
}

// List returns value copies of the participants, in no particular order.
func (r *Registry) List() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	return out
}
