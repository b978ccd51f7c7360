package core

import "errors"

// ErrDuplicateConnection is returned when a connection id is admitted twice.
// Under correct transport semantics this never happens; it is an invariant
// violation, not something callers retry.
var ErrDuplicateConnection = errors.New("connection id already admitted")

// Registry tracks which identities are currently reachable, keyed by
// connection id. It is owned and mutated exclusively by the hub goroutine,
// so it carries no locking of its own.
type Registry struct {
	order   []string
	entries map[string]Identity
}

// NewRegistry returns an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Identity)}
}

// Admit inserts an identity under the given connection id.
func (r *Registry) Admit(connID string, identity Identity) error {
	if _, exists := r.entries[connID]; exists {
		return ErrDuplicateConnection
	}
	r.entries[connID] = identity
	r.order = append(r.order, connID)
	return nil
}

// Evict removes the entry for the connection id. Absent ids are a no-op:
// connection close may race with registry state.
func (r *Registry) Evict(connID string) {
	if _, exists := r.entries[connID]; !exists {
		return
	}
	delete(r.entries, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns the current identities in insertion order. The order is
// not meaningful but is stable within one call.
func (r *Registry) Snapshot() []Identity {
	out := make([]Identity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// FindByUsername returns the earliest-admitted connection whose identity key
// matches. The input may be decorated or bare; lookup is always on the bare
// username. With multiple devices on one account the earliest admission
// wins — a documented tie-break, not a liveness guarantee.
func (r *Registry) FindByUsername(name string) (string, bool) {
	bare := BareUsername(name)
	for _, id := range r.order {
		if r.entries[id].Username == bare {
			return id, true
		}
	}
	return "", false
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
