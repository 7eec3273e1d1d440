package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore is a string key/value store persisted as one JSON file. Keys
// are case insensitive so checksummed and lower-case addresses collide.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

type fileContent struct {
	Data map[string]string `json:"Data"`
}

// NewFileStore loads path if it exists. A missing file starts empty, a
// corrupted one is an error.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: map[string]string{},
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't read %s: %w", path, err)
	}
	decoded := fileContent{}
	if err := json.Unmarshal(content, &decoded); err != nil {
		return nil, fmt.Errorf("couldn't decode %s: %w", path, err)
	}
	for k, v := range decoded.Data {
		s.data[strings.ToLower(k)] = v
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.data[strings.ToLower(key)]
	return value, found
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[strings.ToLower(key)] = value
	return s.persist()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, strings.ToLower(key))
	return s.persist()
}

func (s *FileStore) persist() error {
	jsonData, err := json.MarshalIndent(fileContent{Data: s.data}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, jsonData, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
