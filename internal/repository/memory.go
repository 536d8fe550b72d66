package repository

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryRepository returns an in-process Repository, for tests and for
// running without a database file.
func NewMemoryRepository() Repository {
	return &memoryRepository{data: map[string][]byte{}}
}

func (r *memoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (r *memoryRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, key)
	return nil
}
