package kvstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used when Redis is not configured and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	lists  map[string][]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
		lists:  make(map[string][]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = append([]byte(nil), value...)
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
		delete(s.lists, k)
	}
	return nil
}

func (s *MemoryStore) Append(_ context.Context, listKey, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[listKey] = append(s.lists[listKey], member)
	return nil
}

func (s *MemoryStore) Members(_ context.Context, listKey string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lists[listKey]...), nil
}

func (s *MemoryStore) Remove(_ context.Context, listKey, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[listKey]
	kept := list[:0]
	for _, m := range list {
		if m != member {
			kept = append(kept, m)
		}
	}
	s.lists[listKey] = kept
	return nil
}
