package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

func TestMemoryStoreGetPut(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)

	_, err := s.Get("a")
	assert.ErrorIs(t, err, weather.ErrCacheMiss)

	data := []byte(`{"x":1}`)
	require.NoError(t, s.Put("a", data))
	data[0] = '!'

	entry, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(entry.Data), "store keeps its own copy")
}

func TestMemoryStoreEvictsOldestBeyondMaxEntries(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(2, 0)
	s.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(key, []byte(key)))
		now = now.Add(time.Minute)
	}

	assert.Equal(t, 2, s.Len())
	_, err := s.Get("a")
	assert.ErrorIs(t, err, weather.ErrCacheMiss)
	_, err = s.Get("c")
	assert.NoError(t, err)
}

func TestMemoryStoreMaxAge(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put("a", []byte("a")))
	now = now.Add(2 * time.Hour)

	_, err := s.Get("a")
	assert.ErrorIs(t, err, weather.ErrCacheMiss)

	require.NoError(t, s.Put("b", []byte("b")))
	assert.Equal(t, 1, s.Len(), "expired entries are dropped on write")
}
