// SPDX-License-Identifier: EPL-2.0

package hostverify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// PrefStore persists int64 values across process restarts. A missing
// key reads as 0.
type PrefStore interface {
	GetInt64(key string) int64
	SetInt64(key string, value int64) error
}

// MemStore is an in-memory PrefStore for tests.
type MemStore struct {
	mtx    sync.Mutex
	values map[string]int64
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]int64)}
}

func (s *MemStore) GetInt64(key string) int64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.values[key]
}

func (s *MemStore) SetInt64(key string, value int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.values[key] = value
	return nil
}

// FileStore is a PrefStore backed by a JSON file. Values are written
// through on every set so state survives abrupt process exits.
type FileStore struct {
	path string

	mtx    sync.Mutex
	values map[string]int64
}

// OpenFileStore loads the store at path, creating an empty one if the
// file does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]int64),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read prefs %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) GetInt64(key string) int64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.values[key]
}

func (s *FileStore) SetInt64(key string, value int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.values[key] = value

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write prefs %s: %w", s.path, err)
	}
	return nil
}
