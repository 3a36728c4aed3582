package store

import (
	"context"
	"sync"
)

// MemoryKV is an in-process TxKV.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.data[key]), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = clone(value)
	return nil
}

// WithinTx holds the lock for the whole of fn; writes are staged and only
// applied when fn succeeds.
func (m *MemoryKV) WithinTx(ctx context.Context, fn func(kv KV) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := &stagedKV{base: m.data, writes: make(map[string][]byte)}
	if err := fn(staged); err != nil {
		return err
	}
	for k, v := range staged.writes {
		m.data[k] = v
	}
	return nil
}

type stagedKV struct {
	base   map[string][]byte
	writes map[string][]byte
}

func (s *stagedKV) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := s.writes[key]; ok {
		return clone(v), nil
	}
	return clone(s.base[key]), nil
}

func (s *stagedKV) Set(_ context.Context, key string, value []byte) error {
	s.writes[key] = clone(value)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
