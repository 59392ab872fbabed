package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemSize = 1024

// MemStore is a process-local LRU with per-entry expiry.
type MemStore struct {
	data *expirable.LRU[string, string]
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates a MemStore holding up to size entries for ttl each.
// A zero ttl keeps entries until evicted.
func NewMemStore(size int, ttl time.Duration) *MemStore {
	if size <= 0 {
		size = defaultMemSize
	}
	return &MemStore{data: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (s *MemStore) Get(_ context.Context, name, key string) (string, error) {
	v, ok := s.data.Get(name + "/" + key)
	if !ok {
		return "", nil
	}
	return v, nil
}

func (s *MemStore) Set(_ context.Context, name, key string, val string) error {
	s.data.Add(name+"/"+key, val)
	return nil
}

func (s *MemStore) Purge(_ context.Context, name, key string) error {
	s.data.Remove(name + "/" + key)
	return nil
}

// Len reports how many entries are held.
func (s *MemStore) Len() int {
	return s.data.Len()
}
