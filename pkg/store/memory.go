package store

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore はプロセス内だけで完結するストアです。テストや --store memory: で使うのだ。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	puts   int
}

// NewMemoryStore は空の MemoryStore を生成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = bytes.Clone(value)
	m.puts++
	return nil
}

// Puts はこれまでの書き込み回数なのだ。
func (m *MemoryStore) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

func (m *MemoryStore) Close() error { return nil }
