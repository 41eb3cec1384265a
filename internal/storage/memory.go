package storage

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
)

// MemoryStorage keeps blobs in a map. It backs tests and local experiments.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	// PutErr, when set, is returned by every Put call.
	PutErr error
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (m *MemoryStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[cleaned] = data
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, cleaned)
	return nil
}

func (m *MemoryStorage) DeletePrefix(_ context.Context, prefix string) error {
	cleaned, err := cleanKey(prefix)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.objects {
		if strings.HasPrefix(key, cleaned+"/") {
			delete(m.objects, key)
		}
	}
	return nil
}

func (m *MemoryStorage) URL(_ context.Context, key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return "mem://" + cleaned, nil
}

// Keys lists stored keys in sorted order.
func (m *MemoryStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get returns a stored blob.
func (m *MemoryStorage) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}
