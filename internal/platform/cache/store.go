package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrNilLoader = errors.New("cache loader is required")

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// Store is a process-local TTL cache. Concurrent misses on one key share a
// single load, and a load that overlaps an invalidation is returned to its
// callers but never stored.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64

	flight singleflight.Group
}

// NewStore returns a Store whose entries live for ttl; ttl <= 0 keeps them
// until invalidated.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		s.evict(key, e)
		return nil, false
	}
	return e.value, true
}

// evict drops key only if it still holds e, so a fresher Set is kept.
func (s *Store) evict(key string, e entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[key]; ok && current.expiresAt.Equal(e.expiresAt) {
		delete(s.entries, key)
	}
}

func (s *Store) Set(_ context.Context, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = s.newEntry(value)
}

func (s *Store) newEntry(value any) entry {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}

// setIfCurrent stores value unless the cache was invalidated after gen was
// read.
func (s *Store) setIfCurrent(key string, value any, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.entries[key] = s.newEntry(value)
	return true
}

// DeletePrefix drops every key starting with prefix and discards loads
// still in flight.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	s.mu.Lock()
	s.generation++
	var dropped []string
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			dropped = append(dropped, key)
		}
	}
	s.mu.Unlock()

	for _, key := range dropped {
		s.flight.Forget(key)
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key, calling loader on a miss.
// Loader errors are returned and not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		s.mu.RLock()
		gen := s.generation
		s.mu.RUnlock()

		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.setIfCurrent(key, loaded, gen)
		return loaded, nil
	})
	return value, err
}
