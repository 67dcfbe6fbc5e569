package secrets

import (
	"context"
	"errors"
	"sync"
)

var ErrSecretNotFound = errors.New("secret not found")

// Secret is a value written by the bootstrap tooling
type Secret struct {
	Name        string
	Value       string
	Description string
	Overwrite   bool
	Tags        map[string]string
}

// Store reads and writes named secrets
type Store interface {
	Get(ctx context.Context, name string) (string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Put(ctx context.Context, secret Secret) error
}

// MemoryStore keeps secrets in process. Used by tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	values  map[string]string
	tags    map[string]map[string]string
	Written []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		tags:   make(map[string]map[string]string),
	}
}

func (m *MemoryStore) Get(_ context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	if !ok {
		return "", ErrSecretNotFound
	}
	return v, nil
}

func (m *MemoryStore) Exists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[name]
	return ok, nil
}

func (m *MemoryStore) Put(_ context.Context, secret Secret) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[secret.Name]; ok && !secret.Overwrite {
		return errors.New("secret already exists: " + secret.Name)
	}
	m.values[secret.Name] = secret.Value
	m.tags[secret.Name] = secret.Tags
	m.Written = append(m.Written, secret.Name)
	return nil
}

// Tags returns the tags stored with name
func (m *MemoryStore) Tags(name string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tags[name]
}
