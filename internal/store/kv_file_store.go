package store

import (
	"path/filepath"
	"sync"

	"sealchat/internal/domain"
)

const kvFilename = "kv.json"

// KVFileStore is a string-keyed store kept in a single JSON file. Values
// are base64 in the file. Writes take an advisory file lock, so CLI
// processes sharing a home directory may use it concurrently.
type KVFileStore struct {
	path string
	mu   sync.Mutex
}

// NewKVFileStore returns a KVFileStore rooted at dir.
func NewKVFileStore(dir string) *KVFileStore {
	return &KVFileStore{path: filepath.Join(dir, kvFilename)}
}

// Get returns the value stored under key.
func (s *KVFileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string][]byte{}
	if err := readJSON(s.path, &m); err != nil {
		return nil, false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *KVFileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string][]byte{}
	return updateJSON(s.path, &m, func() error {
		m[key] = append([]byte(nil), value...)
		return nil
	})
}

// Close is a no-op; every Set is flushed immediately.
func (s *KVFileStore) Close() error { return nil }

// Compile-time assertion that KVFileStore implements domain.KeyValueStore.
var _ domain.KeyValueStore = (*KVFileStore)(nil)
