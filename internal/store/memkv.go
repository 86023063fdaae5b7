package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemKV is an in-memory KV. It backs engine tests and any caller that
// wants session semantics without a database on disk.
type MemKV struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]json.RawMessage)}
}

func (m *MemKV) Get(ctx context.Context, key string, out any) error {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	return json.Unmarshal(raw, out)
}

func (m *MemKV) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
