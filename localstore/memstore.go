package localstore

import (
	"sync"

	apperrors "github.com/Abitto-org/user-app/internal/errors"
)

var _ Store = (*MemStore)(nil)

// MemStore is an in-memory Store used by tests and by components that want
// session state without touching the filesystem.
type MemStore struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (ms *MemStore) Get(key string) (string, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	value, ok := ms.values[key]
	if !ok {
		return "", apperrors.ErrKeyNotFound
	}
	return value, nil
}

func (ms *MemStore) Set(key, value string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.values[key] = value
	return nil
}

func (ms *MemStore) Delete(key string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	delete(ms.values, key)
	return nil
}
