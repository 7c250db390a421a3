// Package store provides string key-value storage for learner progress.
// Missing keys are not errors.
package store

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// KV is a synchronous string key-value store.
type KV interface {
	// Load returns value for key, ok is false when key is absent.
	Load(key string) (value string, ok bool, err error)
	// Save stores value under key replacing previous value.
	Save(key, value string) error
	// Delete removes key, deleting absent key is not an error.
	Delete(key string) error
	// Keys returns all stored keys in natural order ("k2" before "k10").
	Keys() ([]string, error)
	Close() error
}

// Memory is KV kept in process memory, used for tests and when persistence
// is turned off.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory returns empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Load(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.Lock()
	keys := slices.Collect(maps.Keys(m.data))
	m.mu.Unlock()

	sortKeys(keys)
	return keys, nil
}

func (m *Memory) Close() error {
	return nil
}

func sortKeys(keys []string) {
	sort.Sort(natural.StringSlice(keys))
}

// Open returns store of requested kind: "sqlite" or "memory".
func Open(kind, path string, log *zap.Logger) (KV, error) {
	switch kind {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(path, log)
	}
	return nil, fmt.Errorf("unknown store kind '%s'", kind)
}
