package store

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MockStore implements Store in memory for testing.
// Reads and writes can be made to fail independently.
type MockStore struct {
	mu      sync.RWMutex
	strings map[string]string
	lists   map[string][]string
	ttls    map[string]time.Duration

	failReads  bool
	failWrites bool
	gets       int
	sets       int
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		strings: make(map[string]string),
		lists:   make(map[string][]string),
		ttls:    make(map[string]time.Duration),
	}
}

// FailReads makes Get, GetMany, GetList and Ping return ErrUnavailable.
func (m *MockStore) FailReads(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads = fail
}

// FailWrites makes Set, SetMany, SetList and Delete return ErrUnavailable.
func (m *MockStore) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Calls returns how many Get and Set calls were made, including failed ones.
func (m *MockStore) Calls() (gets, sets int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets, m.sets
}

// TTL returns the expiry recorded by the last Set of key.
func (m *MockStore) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttls[key]
}

func (m *MockStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failReads {
		return "", false, ErrUnavailable
	}
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *MockStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failWrites {
		return ErrUnavailable
	}
	m.strings[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockStore) GetList(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failReads {
		return nil, ErrUnavailable
	}
	out := slices.Clone(m.lists[key])
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (m *MockStore) SetList(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrUnavailable
	}
	prepended := slices.Clone(values)
	slices.Reverse(prepended)
	m.lists[key] = append(prepended, m.lists[key]...)
	return nil
}

func (m *MockStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrUnavailable
	}
	for _, k := range keys {
		delete(m.strings, k)
		delete(m.lists, k)
		delete(m.ttls, k)
	}
	return nil
}

func (m *MockStore) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failReads {
		return ErrUnavailable
	}
	return nil
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) GetMany(_ context.Context, keys ...string) ([]*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failReads {
		return nil, ErrUnavailable
	}
	out := make([]*string, len(keys))
	for i, k := range keys {
		if v, ok := m.strings[k]; ok {
			out[i] = &v
		}
	}
	return out, nil
}

func (m *MockStore) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failWrites {
		return ErrUnavailable
	}
	for k, v := range values {
		m.strings[k] = v
		delete(m.ttls, k)
	}
	return nil
}

var _ BulkStore = (*MockStore)(nil)
