package blob

import (
	"context"
	"sync"
)

// Memory is an in-memory Store used by tests and dry runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) ReadMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if b, ok := m.data[key]; ok {
			out[key] = append([]byte(nil), b...)
		}
	}
	return out, nil
}

func (m *Memory) WriteMany(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, b := range entries {
		if _, err := sanitizeKey(key); err != nil {
			return err
		}
		m.data[key] = append([]byte(nil), b...)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
