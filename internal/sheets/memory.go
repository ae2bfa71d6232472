package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps sheets in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][][]string)}
}

func (m *MemoryStore) Read(_ context.Context, table string) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.tables[table]
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return split(table, copyValues(values)), nil
}

func (m *MemoryStore) Append(_ context.Context, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	m.tables[table] = append(values, append([]string(nil), row...))
	return nil
}

func (m *MemoryStore) EnsureHeaders(_ context.Context, table string, headers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values := m.tables[table]
	if len(values) > 0 && len(values[0]) > 0 {
		return nil
	}
	h := append([]string(nil), headers...)
	if len(values) == 0 {
		m.tables[table] = [][]string{h}
		return nil
	}
	values[0] = h
	return nil
}

func copyValues(values [][]string) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = append([]string(nil), row...)
	}
	return out
}
