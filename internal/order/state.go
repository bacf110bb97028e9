package order

import "sync"

// State is the server-authoritative snapshot of a customer's in-progress
// order. Every backend push replaces the previous snapshot wholesale; there
// are no incremental patches.
type State struct {
	Items []Item `json:"items"`
}

// Item is one line of an order snapshot.
type Item struct {
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	Price     float64    `json:"price"`
	Modifiers []Modifier `json:"modifiers,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// Modifier is a named customization attached to an order item.
type Modifier struct {
	Name string `json:"name"`
}

// Summary carries the derived order figures. They are recomputed from the
// items on every read and never stored.
type Summary struct {
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
}

// Store holds the latest order snapshot for one session.
type Store struct {
	mu    sync.RWMutex
	state *State
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new snapshot, discarding the old one entirely. A nil
// state or a state without items clears the store.
func (s *Store) Replace(state *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil || len(state.Items) == 0 {
		s.state = nil
		return
	}
	s.state = state
}

// Snapshot returns the current state, or nil when no order is in progress.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Visible reports whether order indicators should be shown at all.
func (s *Store) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil && len(s.state.Items) > 0
}

// Derive recomputes the item count and total from the current snapshot.
func (s *Store) Derive() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum Summary
	if s.state == nil {
		return sum
	}
	for _, item := range s.state.Items {
		sum.ItemCount += item.Quantity
		sum.Total += item.Price * float64(item.Quantity)
	}
	return sum
}
