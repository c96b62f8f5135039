package receipt

import (
	"errors"
	"sync"
)

// Store holds the live set of receipts keyed by ID. All methods are safe
// for concurrent use from any number of goroutines; callers never need
// external locking.
type Store struct {
	mu       sync.RWMutex
	receipts map[string]*Receipt
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		receipts: make(map[string]*Receipt),
	}
}

// Save inserts or overwrites the receipt under its ID. Saving the same ID
// twice replaces the stored value, last writer wins.
func (s *Store) Save(r *Receipt) error {
	if r == nil {
		return errors.New("receipt is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[r.ID] = r
	return nil
}

// FindByID looks up a receipt. A miss on a well-formed ID is a normal
// outcome reported through the bool, not an error.
func (s *Store) FindByID(id string) (*Receipt, bool, error) {
	if id == "" {
		return nil, false, errors.New("receipt id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[id]
	return r, ok, nil
}

// FindAll returns a snapshot copy of the store. Mutating the returned map
// never affects the store's internal state.
func (s *Store) FindAll() map[string]*Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]*Receipt, len(s.receipts))
	for id, r := range s.receipts {
		snapshot[id] = r
	}
	return snapshot
}

// DeleteByID removes the receipt if present and reports whether anything
// was removed. An unknown ID is not an error.
func (s *Store) DeleteByID(id string) (bool, error) {
	if id == "" {
		return false, errors.New("receipt id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.receipts[id]; !ok {
		return false, nil
	}
	delete(s.receipts, id)
	return true, nil
}

// ExistsByID reports whether a receipt is stored under the given ID
func (s *Store) ExistsByID(id string) (bool, error) {
	if id == "" {
		return false, errors.New("receipt id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.receipts[id]
	return ok, nil
}

// Count returns the number of stored receipts
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.receipts)
}
