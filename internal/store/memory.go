package store

import (
	"context"
	"sync"

	"github.com/iwvelando/site-payouts/internal/allocation"
)

// Memory keeps tenant data in process memory. Values are copied on the way
// in and out so callers never share state with the store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]allocation.Data
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]allocation.Data)}
}

func (m *Memory) Get(_ context.Context, tenantID string) (allocation.Data, error) {
	if err := checkTenant(tenantID); err != nil {
		return allocation.Data{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.data[tenantID]
	if !ok {
		return allocation.Data{}, ErrNotFound
	}
	return d.Clone(), nil
}

func (m *Memory) Put(_ context.Context, tenantID string, data allocation.Data) error {
	if err := checkTenant(tenantID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[tenantID] = data.Clone()
	return nil
}

func (m *Memory) Close() error {
	return nil
}
