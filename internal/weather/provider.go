package weather

import (
	"context"
	"time"
)

// Provider abstracts a forecast source (Open-Meteo, MET.no). Fetch returns
// the raw response body for the location.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) ([]byte, error)
}

// CacheEntry is a persisted response document and the time it was written.
type CacheEntry struct {
	Data    []byte
	ModTime time.Time
}

// Size returns the document size in bytes.
func (e CacheEntry) Size() int64 {
	return int64(len(e.Data))
}

// Store is the contract the file store (and the in-memory store) satisfy.
// Get returns ErrCacheMiss when nothing is stored under key.
type Store interface {
	Get(key string) (CacheEntry, error)
	Put(key string, data []byte) error
}
