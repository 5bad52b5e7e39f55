package store

import (
	"sync"
	"time"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// Contents are lost on restart; it exists for tests and single-process
// deployments without a writable disk.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: last document
	data map[string]weather.CacheEntry

	// retention configuration
	maxEntries int           // max number of locations kept
	maxAge     time.Duration // optional max age of an entry

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries is <= 0, it is treated as unlimited; likewise maxAge.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]weather.CacheEntry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Put replaces the document for key and enforces retention.
func (s *MemoryStore) Put(key string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.data[key] = weather.CacheEntry{Data: buf, ModTime: now}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		for k, e := range s.data {
			if e.ModTime.Before(cutoff) {
				delete(s.data, k)
			}
		}
	}

	// Enforce retention by count, oldest first.
	for s.maxEntries > 0 && len(s.data) > s.maxEntries {
		var (
			oldestKey string
			oldest    time.Time
		)
		for k, e := range s.data {
			if oldestKey == "" || e.ModTime.Before(oldest) {
				oldestKey, oldest = k, e.ModTime
			}
		}
		delete(s.data, oldestKey)
	}
	return nil
}

// Get returns the document stored under key.
func (s *MemoryStore) Get(key string) (weather.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return weather.CacheEntry{}, weather.ErrCacheMiss
	}
	if s.maxAge > 0 && e.ModTime.Before(s.now().Add(-s.maxAge)) {
		return weather.CacheEntry{}, weather.ErrCacheMiss
	}
	return e, nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
