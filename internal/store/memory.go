package store

import "sync"

// MemoryPort is an in-process Port. Used by tests and by the daemon when no
// STORE_PATH is configured; preferences then last for the process lifetime.
type MemoryPort struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryPort creates an empty in-memory port.
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{values: make(map[string]string)}
}

func (m *MemoryPort) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryPort) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Snapshot returns a copy of the stored keys, for tests that assert on
// persisted bytes.
func (m *MemoryPort) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
