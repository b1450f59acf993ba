package cache

import (
	"fmt"
	"strings"
	"sync"
)

// memoryStore is the in-process store backing the catalog cache. It is
// unbounded, carries no TTL and no eviction: entries live until the
// invalidator deletes them or the process exits. Correctness therefore rests
// on invalidation, not on expiry.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	codec   Codec
}

func NewMemoryStore(codec Codec) Store {
	if codec == nil {
		codec = JSONCodec()
	}

	return &memoryStore{
		entries: make(map[string][]byte),
		codec:   codec,
	}
}

func (s *memoryStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[key]

	return ok
}

func (s *memoryStore) Get(key string, dest any) error {
	s.mu.RLock()
	data, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	if err := s.codec.Decode(data, dest); err != nil {
		return fmt.Errorf("%w: key %s: %v", ErrCorruptedEntry, key, err)
	}

	return nil
}

func (s *memoryStore) Set(key string, value any) error {
	data, err := s.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %s: %w", key, err)
	}

	s.mu.Lock()
	s.entries[key] = data
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *memoryStore) DeleteByPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}
