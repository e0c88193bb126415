package threadsafe

import (
	"iter"
	"maps"
	"sync"
)

// Map guards a plain map with a read-write mutex.
type Map[K comparable, V any] struct {
	m  map[K]V
	mu sync.RWMutex
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.m[key] = value
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.m[key]
	return val, ok
}

// Update stores fn(current, exists) under key while holding the write lock,
// so concurrent read-modify-write cycles on the same key do not interleave.
func (m *Map[K, V]) Update(key K, fn func(current V, exists bool) V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.m[key]
	m.m[key] = fn(current, ok)
}

func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.m)
}

// All iterates over a copy taken at call time. Callers may modify the map
// while iterating.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	m.mu.RLock()
	snapshot := maps.Clone(m.m)
	m.mu.RUnlock()

	return maps.All(snapshot)
}
