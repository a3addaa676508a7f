package store

import (
	"slices"
	"sync"
)

// Store is the single shared, mutable holder of the workspace State.
// It is safe for concurrent use. Subscribers are called after every change,
// outside the lock, in subscription order.
type Store struct {
	mu    sync.RWMutex
	state State

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(State)
}

// New creates a store holding an empty state for companyID.
func New(companyID string) *Store {
	return &Store{state: Empty(companyID), subs: map[int]func(State){}}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies the actions in order and notifies subscribers once.
func (s *Store) Dispatch(actions ...Action) State {
	return s.Update(func(st State) State {
		for _, a := range actions {
			st = Reduce(st, a)
		}
		return st
	})
}

// Update replaces the state with fn(current) atomically.
func (s *Store) Update(fn func(State) State) State {
	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	s.mu.Unlock()

	s.notify(next)
	return next
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(st State) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	s.subMu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		s.subMu.Lock()
		fn, ok := s.subs[id]
		s.subMu.Unlock()
		if ok {
			fn(st)
		}
	}
}
