// Package profile implements a two-level cost-history store: a per-key
// histogram of observed "complexity" (normalized CPU-seconds) that
// generalizes across differing input complexities via a bucketed
// nearest-neighbour scheme.
package profile

import "sync"

// Store is a persistent, thread-safe mapping from key to Item. Two
// instances are used by the scheduler: "global" keyed by task name,
// "local" keyed by (executor, task) via LocalKey.
type Store struct {
	mu       sync.Mutex
	items    map[string]*Item
	filename string
}

// New creates an empty, unbacked store. Use Load to populate it from a
// file, or construct directly for tests.
func New() *Store {
	return &Store{items: make(map[string]*Item)}
}

// LocalKey composes the (executor, task) key used by the "local"
// store. executor is either the literal "localhost" or a peer name.
func LocalKey(executor, taskName string) string {
	return executor + "\x00" + taskName
}

// Register appends a measurement for key. inputComplexity == nil
// registers a 1-D sample; a non-nil value registers into the bucketed
// 2-D scheme. Returns ErrModeMismatch if key was previously used in
// the other mode.
func (s *Store) Register(key string, value float64, inputComplexity *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		item = newItem()
		s.items[key] = item
	}
	return item.Register(value, inputComplexity)
}

// GetComplexity returns the current estimate for key at the given
// input complexity (nil for 1-D lookups), or def if key is unknown.
func (s *Store) GetComplexity(key string, def float64, inputComplexity *float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return def
	}
	v := item.GetComplexity(inputComplexity)
	if v == DefaultComplexity && !itemHasSamples(item, inputComplexity) {
		return def
	}
	return v
}

func itemHasSamples(item *Item, inputComplexity *float64) bool {
	if inputComplexity == nil {
		return item.Flat() != nil && item.Flat().Len() > 0
	}
	return len(item.Buckets()) > 0
}

// Len returns the number of distinct keys currently tracked. Mostly
// useful for tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
