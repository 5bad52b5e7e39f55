package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

// FileStore persists one JSON document per location as
// <dir>/meteo_<key>.json. The file's modification time is the entry's age.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, "meteo_"+key+".json")
}

// Get reads the document for key.
func (s *FileStore) Get(key string) (weather.CacheEntry, error) {
	path := s.Path(key)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return weather.CacheEntry{}, weather.ErrCacheMiss
		}
		return weather.CacheEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return weather.CacheEntry{}, weather.ErrCacheMiss
		}
		return weather.CacheEntry{}, fmt.Errorf("read %s: %w", path, err)
	}
	return weather.CacheEntry{Data: data, ModTime: info.ModTime()}, nil
}

// Put writes the document for key. The data goes to a uniquely named
// temporary file that is renamed over the target, so readers never observe a
// partial document.
func (s *FileStore) Put(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	target := s.Path(key)
	tmp := filepath.Join(s.dir, ".meteo_"+key+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", target, err)
	}
	return nil
}
