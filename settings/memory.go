package settings

import (
	"maps"
	"sync"
)

// Memory is an in-process store used by test mode and tests.
type Memory struct {
	mu     sync.Mutex
	values map[string]int
	saves  int
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]int)}
}

func (m *Memory) Load(key string, def int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v
	}
	return def
}

func (m *Memory) Save(key string, value int) error {
	m.mu.Lock()
	m.values[key] = value
	m.saves++
	m.mu.Unlock()
	return nil
}

func (m *Memory) SaveAll(values map[string]int) error {
	m.mu.Lock()
	maps.Copy(m.values, values)
	m.saves++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Set seeds a value without counting it as a save.
func (m *Memory) Set(key string, value int) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

// Values returns a copy of everything stored.
func (m *Memory) Values() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values)
}

// Saves counts Save and SaveAll calls.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }
