package session

import (
	"context"
	"sync"
	"time"
)

// Store persists encoded session data by id.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the data saved for id, or ErrNotFound.
	Load(ctx context.Context, id string) (string, error)
	// Save stores data for id. A zero ttl means no expiration.
	Save(ctx context.Context, id, data string, ttl time.Duration) error
	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	data    string
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Data is lost on restart and
// not shared between instances, so it suits tests, demos and single-node tools.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// Load returns the data for id. Expired entries are dropped lazily.
func (m *MemoryStore) Load(_ context.Context, id string) (string, error) {
	m.mu.RLock()
	e, ok := m.data[id]
	m.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.data, id)
		m.mu.Unlock()
		return "", ErrNotFound
	}
	return e.data, nil
}

// Save stores data for id.
func (m *MemoryStore) Save(_ context.Context, id, data string, ttl time.Duration) error {
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = e
	return nil
}

// Delete removes id.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// Len reports the number of stored sessions, including expired ones not yet
// dropped.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
