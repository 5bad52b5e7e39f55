package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s := NewFileStore(dir)

	_, err := s.Get("45.9237_6.8652")
	assert.ErrorIs(t, err, weather.ErrCacheMiss)

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.Put("45.9237_6.8652", []byte(`{"meta":{}}`)))

	entry, err := s.Get("45.9237_6.8652")
	require.NoError(t, err)
	assert.Equal(t, `{"meta":{}}`, string(entry.Data))
	assert.True(t, entry.ModTime.After(before))
	assert.Equal(t, int64(11), entry.Size())

	assert.FileExists(t, filepath.Join(dir, "meteo_45.9237_6.8652.json"))
}

func TestFileStoreOverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	require.NoError(t, s.Put("1_2", []byte(`{"v":1}`)))
	require.NoError(t, s.Put("1_2", []byte(`{"v":2}`)))

	entry, err := s.Get("1_2")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(entry.Data))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "meteo_1_2.json", files[0].Name())
}

func TestFileStoreReportsAge(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, s.Put("1_2", []byte(`{}`)))

	old := time.Now().Add(-20 * time.Minute)
	require.NoError(t, os.Chtimes(s.Path("1_2"), old, old))

	entry, err := s.Get("1_2")
	require.NoError(t, err)
	assert.WithinDuration(t, old, entry.ModTime, time.Second)
}

func TestFileStoreUnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewFileStore(filepath.Join(blocker, "cache"))
	assert.Error(t, s.Put("1_2", []byte(`{}`)))
}
