package cart

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryPersistence keeps the serialized blob in memory. It is the default
// for tests and for sessions that opt out of durable storage, and it runs the
// same serialize/deserialize path as the durable adapters.
type MemoryPersistence struct {
	mu   sync.Mutex
	blob []byte
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (m *MemoryPersistence) Load() ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.blob) == 0 {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(m.blob, &lines); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StorageKey, err)
	}
	return lines, nil
}

func (m *MemoryPersistence) Save(lines []Line) error {
	blob, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StorageKey, err)
	}
	m.mu.Lock()
	m.blob = blob
	m.mu.Unlock()
	return nil
}

// SetBlob overwrites the stored value verbatim. Tests use it to plant
// corrupted content.
func (m *MemoryPersistence) SetBlob(raw []byte) {
	m.mu.Lock()
	m.blob = append([]byte(nil), raw...)
	m.mu.Unlock()
}
