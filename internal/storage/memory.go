package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend implements Backend interface using in-memory storage.
// Readings are kept in history order so reads are simple slices.
type MemoryBackend struct {
	mu      sync.RWMutex
	storage []Vital
	nextID  int64
}

// NewMemoryBackend creates a new in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		storage: make([]Vital, 0),
		nextID:  1,
	}
}

// Insert assigns the next id and places the reading at its history position.
func (m *MemoryBackend) Insert(ctx context.Context, vital Vital) (Vital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vital.ID = m.nextID
	vital.Timestamp = vital.Timestamp.UTC()
	m.nextID++

	idx := sort.Search(len(m.storage), func(i int) bool {
		return newerFirst(vital, m.storage[i])
	})
	m.storage = append(m.storage, Vital{})
	copy(m.storage[idx+1:], m.storage[idx:])
	m.storage[idx] = vital

	return vital, nil
}

// Count returns the number of stored readings.
func (m *MemoryBackend) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.storage)), nil
}

// Latest returns up to n of the newest readings, newest first.
func (m *MemoryBackend) Latest(ctx context.Context, n int) ([]Vital, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slice(0, n), nil
}

// Page returns one page of history and the total count.
func (m *MemoryBackend) Page(ctx context.Context, page, pageSize int) ([]Vital, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slice(pageOffset(page, pageSize), pageSize), int64(len(m.storage)), nil
}

// Get returns the reading with the given id.
func (m *MemoryBackend) Get(ctx context.Context, id int64) (Vital, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.storage {
		if v.ID == id {
			return v, nil
		}
	}
	return Vital{}, ErrNotFound
}

// Close performs cleanup for memory backend
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.storage = nil
	return nil
}

// slice copies storage[offset:offset+limit], clamped (assumes lock held)
func (m *MemoryBackend) slice(offset, limit int) []Vital {
	if offset >= len(m.storage) || limit <= 0 {
		return []Vital{}
	}
	end := offset + limit
	if end > len(m.storage) {
		end = len(m.storage)
	}

	out := make([]Vital, end-offset)
	copy(out, m.storage[offset:end])
	return out
}
