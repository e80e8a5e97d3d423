// Package store provides Persistence implementations.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/warp/lease-tracker/contract"
)

// DefaultKey is the key the contract list is stored under.
const DefaultKey = "contracts_v1"

// =============================================================================
// MEMORY STORE - Key-value implementation (for testing/dev)
// =============================================================================

// Memory keeps the contract list as a serialized JSON document under a
// single key, the way a browser key-value store would.
type Memory struct {
	mu    sync.RWMutex
	key   string
	data  map[string][]byte
	saves int

	// FailSaves makes every Save return an error.
	FailSaves bool
}

func NewMemory() *Memory {
	return &Memory{key: DefaultKey, data: make(map[string][]byte)}
}

// Load decodes the stored document. An absent key is an empty list.
func (m *Memory) Load(_ context.Context) ([]contract.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[m.key]
	if !ok {
		return nil, nil
	}
	var contracts []contract.Contract
	if err := json.Unmarshal(raw, &contracts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.key, err)
	}
	return contracts, nil
}

// Save overwrites the stored document.
func (m *Memory) Save(_ context.Context, contracts []contract.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves {
		return fmt.Errorf("save %s: storage unavailable", m.key)
	}
	raw, err := json.Marshal(contracts)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.key, err)
	}
	m.data[m.key] = raw
	m.saves++
	return nil
}

// SetRaw replaces the stored document, valid or not.
func (m *Memory) SetRaw(raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.key] = append([]byte(nil), raw...)
}

// Saves returns how many successful saves happened.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

var _ contract.Persistence = (*Memory)(nil)
