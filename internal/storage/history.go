// Package storage keeps the bounded recent-search history. The store
// is injectable so tests can swap the SQLite implementation for the
// in-memory one.
package storage

import "sync"

// HistoryLimit bounds the recent-search list.
const HistoryLimit = 5

// Push returns the history with query moved to the front, exact-match
// duplicates removed and the result truncated to HistoryLimit. The
// input slice is not modified.
func Push(history []string, query string) []string {
	updated := make([]string, 0, len(history)+1)
	updated = append(updated, query)
	for _, item := range history {
		if item != query {
			updated = append(updated, item)
		}
	}
	if len(updated) > HistoryLimit {
		updated = updated[:HistoryLimit]
	}
	return updated
}

type HistoryStore interface {
	Load() ([]string, error)
	Save(history []string) error
	Clear() error
}

// MemoryStore is the in-process HistoryStore used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	history []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out, nil
}

func (m *MemoryStore) Save(history []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = make([]string, len(history))
	copy(m.history, history)
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	return nil
}

var (
	_ HistoryStore = (*MemoryStore)(nil)
	_ HistoryStore = (*SQLiteStore)(nil)
)
